package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerFallsBackToGlobal(t *testing.T) {
	ctx := context.Background()
	entry := G(ctx)
	require.NotNil(t, entry)
	assert.Equal(t, L.Logger, entry.Logger)
}

func TestWithLoggerRoundTrip(t *testing.T) {
	ctx := context.Background()
	custom := logrus.NewEntry(logrus.New()).WithField("account", "H1")

	ctx = WithLogger(ctx, custom)
	got := G(ctx)

	assert.Equal(t, "H1", got.Data["account"])
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { L.Logger.SetLevel(logrus.WarnLevel) })

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	assert.Error(t, SetLogLevel("loud"))
}

func TestSetLogFormatJSON(t *testing.T) {
	t.Cleanup(func() {
		SetLogFormat("text")
		L.Logger.SetOutput(logrus.New().Out)
	})

	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetLogFormat("json")

	L.Warn("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)
	assert.Contains(t, buf.String(), `"level":"warning"`)
}

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(append([]Option{WithBaseURL(server.URL)}, opts...)...)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		wantErr  bool
	}{
		{"https://api.kyun.host", "https://api.kyun.host", false},
		{"https://api.kyun.host/", "https://api.kyun.host", false},
		{"api.kyun.host", "https://api.kyun.host", false},
		{"http://localhost:8080/", "http://localhost:8080", false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		got, err := normalizeBaseURL(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "raw %q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.expected, got)
	}
}

func TestAuthHeaders(t *testing.T) {
	var gotToken, gotOTP string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Auth-Token")
		gotOTP = r.Header.Get("X-OTP-Code")
		json.NewEncoder(w).Encode(UserInfo{AccountHash: "H1"})
	}, WithAPIKey("secret-key"), WithOTP("123456"))

	_, err := client.UserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret-key", gotToken)
	assert.Equal(t, "123456", gotOTP)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/logIn", r.URL.Path)
		assert.Equal(t, "9876", r.Header.Get("X-OTP-Code"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "HASH1", body["hash"])
		assert.Equal(t, "pass", body["password"])

		w.Write([]byte(`"temp-token"`))
	})

	token, err := client.Login(context.Background(), "HASH1", "pass", "9876")
	require.NoError(t, err)
	assert.Equal(t, "temp-token", token)
}

func TestLoginWrongPassword(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`"Wrong password"`))
	})

	_, err := client.Login(context.Background(), "HASH1", "nope", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Wrong password")
}

func TestCreateAccount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/etc/powChallenge":
			json.NewEncoder(w).Encode(PowChallenge{Challenge: "ch", Signature: "sig"})
		case "/user":
			assert.Equal(t, http.MethodPut, r.Method)

			var body struct {
				Password string `json:"password"`
				Pow      Pow    `json:"pow"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "hunter2", body.Password)
			assert.Equal(t, Pow{Challenge: "ch", Signature: "sig", Proof: "nonce"}, body.Pow)

			w.Write([]byte(`"temp-token"`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	challenge, err := client.PowChallenge(context.Background())
	require.NoError(t, err)

	token, err := client.CreateAccount(context.Background(), "hunter2", Pow{
		Challenge: challenge.Challenge,
		Signature: challenge.Signature,
		Proof:     "nonce",
	})
	require.NoError(t, err)
	assert.Equal(t, "temp-token", token)
}

func TestStatusErrorMapping(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusTeapot, ErrOTPRequired},
		{http.StatusUnprocessableEntity, ErrUnprocessable},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
	}

	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})

		_, err := client.UserInfo(context.Background())
		assert.ErrorIs(t, err, tt.sentinel, "status %d", tt.status)
	}
}

func TestCreateAPIKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/user/apiKeys", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "kyuncli-key", body["label"])

		w.Write([]byte(`"new-api-key"`))
	})

	key, err := client.CreateAPIKey(context.Background(), "kyuncli-key")
	require.NoError(t, err)
	assert.Equal(t, "new-api-key", key)
}

func TestDanbos(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/danbo", r.URL.Path)
		json.NewEncoder(w).Encode([]Danbo{
			{ID: "d1", Name: "web", Price: 1500, Datacenter: "wa"},
			{ID: "d2", Name: "db", Price: 3000, Datacenter: "ro"},
		})
	})

	danbos, err := client.Danbos(context.Background())
	require.NoError(t, err)
	require.Len(t, danbos, 2)
	assert.Equal(t, "web", danbos[0].Name)
	assert.Equal(t, float64(3000), danbos[1].Price)
}

func TestDeleteDanboSendsConfirmationAndOTP(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/services/danbo/d1", r.URL.Path)
		assert.Equal(t, "424242", r.Header.Get("X-OTP-Code"))

		body, _ := io.ReadAll(r.Body)
		var confirmation string
		require.NoError(t, json.Unmarshal(body, &confirmation))
		assert.Equal(t, "DELETE VM AND ALL DATA NOW, NO UNDO", confirmation)
	})

	require.NoError(t, client.DeleteDanbo(context.Background(), "d1", "424242"))
}

func TestDeleteDanboOTPRequired(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	err := client.DeleteDanbo(context.Background(), "d1", "")
	assert.ErrorIs(t, err, ErrOTPRequired)
}

func TestChangeDanboPower(t *testing.T) {
	var gotAction string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/danbo/d1/power", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotAction))
	})

	require.NoError(t, client.ChangeDanboPower(context.Background(), "d1", "reboot"))
	assert.Equal(t, "reboot", gotAction)
}

func TestDanboIPv6SubnetDecodesQuotedString(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"2a0e:aa00::/64"`))
	})

	subnet, err := client.DanboIPv6Subnet(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "2a0e:aa00::/64", subnet)
}

func TestDatacenterAvailableSpecsQueryParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datacenters/wa/availableSpecs", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("cores"))
		assert.Equal(t, "8.5", r.URL.Query().Get("ram"))
		assert.Equal(t, "100", r.URL.Query().Get("disk"))
		json.NewEncoder(w).Encode(Specs{Cores: 16, RAM: 64, Disk: 1000})
	})

	specs, err := client.DatacenterAvailableSpecs(context.Background(), "wa", Specs{Cores: 4, RAM: 8.5, Disk: 100})
	require.NoError(t, err)
	assert.Equal(t, 16, specs.Cores)
}

func TestBuyBrick(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/services/bricks", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(500), body["gb"])
		assert.Equal(t, "wa", body["datacenter"])

		w.Write([]byte(`"brick-42"`))
	})

	id, err := client.BuyBrick(context.Background(), 500, "wa")
	require.NoError(t, err)
	assert.Equal(t, "brick-42", id)
}

func TestDepositRates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deposits/rates", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]float64{"xmr": 142.33, "eur": 1})
	})

	rates, err := client.DepositRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 142.33, rates["xmr"])
}

func TestChatsAndStaffCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chats":
			json.NewEncoder(w).Encode([]Chat{
				{ID: "c1", Name: "billing", ReadByUser: false,
					LastMessage: &ChatMessagePreview{Author: "staff", Content: "hello"}},
			})
		case "/chats/activeStaff":
			w.Write([]byte("3"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	chats, err := client.Chats(context.Background())
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.False(t, chats[0].ReadByUser)
	assert.Equal(t, "hello", chats[0].LastMessage.Content)

	count, err := client.ActiveStaffCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUpdateContactPartialPatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ops@example.com", body["email"])
		_, hasMatrix := body["matrix"]
		assert.False(t, hasMatrix, "unset fields must not be sent")
	})

	email := "ops@example.com"
	require.NoError(t, client.UpdateContact(context.Background(), &email, nil))
}

package main

import (
	"testing"

	"github.com/kyun-host/kyuncli/pkg/api"
	"github.com/stretchr/testify/assert"
)

func TestValidateSpecs(t *testing.T) {
	tests := []struct {
		name    string
		specs   api.Specs
		wantErr []string
	}{
		{
			name:  "minimum valid",
			specs: api.Specs{Cores: 1, RAM: 0.5, Disk: 10},
		},
		{
			name:  "typical",
			specs: api.Specs{Cores: 4, RAM: 8, Disk: 100},
		},
		{
			name:  "half gb steps allowed above one",
			specs: api.Specs{Cores: 2, RAM: 1.5, Disk: 50},
		},
		{
			name:    "zero cores",
			specs:   api.Specs{Cores: 0, RAM: 1, Disk: 10},
			wantErr: []string{"cores must be at least 1"},
		},
		{
			name:    "ram below minimum",
			specs:   api.Specs{Cores: 1, RAM: 0.25, Disk: 10},
			wantErr: []string{"RAM must be at least 0.5 GB", "RAM must be in steps of 0.5 GB"},
		},
		{
			name:    "ram between half and one",
			specs:   api.Specs{Cores: 1, RAM: 0.75, Disk: 10},
			wantErr: []string{"RAM must be in steps of 0.5 GB", "RAM between 0.5 and 1 GB is not available"},
		},
		{
			name:    "fractional ram step",
			specs:   api.Specs{Cores: 1, RAM: 2.3, Disk: 10},
			wantErr: []string{"RAM must be in steps of 0.5 GB"},
		},
		{
			name:    "disk too small",
			specs:   api.Specs{Cores: 1, RAM: 1, Disk: 5},
			wantErr: []string{"disk must be at least 10 GB"},
		},
		{
			name:    "everything wrong at once",
			specs:   api.Specs{Cores: 0, RAM: 0, Disk: 0},
			wantErr: []string{"cores", "RAM", "disk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSpecs(tt.specs)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

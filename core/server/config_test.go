package server_test

import (
	"testing"

	"feedmark/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     server.Config
		wantErr bool
	}{
		{"Valid", server.Config{Port: "8080", SessionLimit: 10}, false},
		{"Zero limit", server.Config{Port: "8080"}, false},
		{"Missing port", server.Config{SessionLimit: 10}, true},
		{"Negative limit", server.Config{Port: "8080", SessionLimit: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Sessions(t *testing.T) {
	assert.Equal(t, server.DefaultSessionLimit, server.Config{}.Sessions())
	assert.Equal(t, 3, server.Config{SessionLimit: 3}.Sessions())
}

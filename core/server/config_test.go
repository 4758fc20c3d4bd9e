package server_test

import (
	"testing"

	"catalog-sync/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Address(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{"Default", "", ":8080"},
		{"Custom", "9090", ":9090"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Port: tt.port}
			assert.Equal(t, tt.want, c.Address())
		})
	}
}

func TestConfig_AuthEnabled(t *testing.T) {
	assert.False(t, server.Config{}.AuthEnabled())
	assert.True(t, server.Config{ApiKey: "secret"}.AuthEnabled())
}

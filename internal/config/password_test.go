package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name       string
		bcryptCost string
		hash       string
		wantCost   int
		wantErr    bool
	}{
		{name: "default cost", bcryptCost: "", wantCost: 12},
		{name: "valid cost", bcryptCost: "10", wantCost: 10},
		{name: "cost too low", bcryptCost: "9", wantErr: true},
		{name: "cost too high", bcryptCost: "15", wantErr: true},
		{name: "non-numeric cost", bcryptCost: "abc", wantErr: true},
		{name: "malformed hash", bcryptCost: "10", hash: "not-a-hash", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.bcryptCost)
			t.Setenv("ADMIN_PASSWORD", "open sesame")
			t.Setenv("ADMIN_PASSWORD_HASH", tt.hash)
			t.Setenv("PASSWORD_PEPPER", "")

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
			assert.Equal(t, "open sesame", cfg.Plain)
			assert.True(t, cfg.Configured())
		})
	}
}

func TestPasswordConfig_VerifyPlain(t *testing.T) {
	cfg := &PasswordConfig{Plain: "open sesame", BcryptCost: bcrypt.MinCost}

	assert.True(t, cfg.Verify("open sesame"))
	assert.False(t, cfg.Verify("open sesame "))
	assert.False(t, cfg.Verify("OPEN SESAME"))
	assert.False(t, cfg.Verify(""))
}

func TestPasswordConfig_VerifyHash(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: bcrypt.MinCost}
	hash, err := cfg.HashPassword("open sesame")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	cfg.Hash = hash
	cfg.Plain = "ignored when a hash is set"
	assert.True(t, cfg.Verify("open sesame"))
	assert.False(t, cfg.Verify("ignored when a hash is set"))
}

func TestPasswordConfig_VerifyWithPepper(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: bcrypt.MinCost, Pepper: "pepper"}
	hash, err := cfg.HashPassword("open sesame")
	require.NoError(t, err)

	assert.True(t, cfg.VerifyPassword("open sesame", hash))

	unpeppered := &PasswordConfig{BcryptCost: bcrypt.MinCost}
	assert.False(t, unpeppered.VerifyPassword("open sesame", hash))
}

func TestPasswordConfig_Unconfigured(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 12}
	assert.False(t, cfg.Configured())
	assert.False(t, cfg.Verify("anything"))
}

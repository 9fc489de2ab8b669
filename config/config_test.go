package config

import (
	"testing"

	"github.com/bhanuprakash1708/GitHub-HireScore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidate will test the credential checks done before boot
func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		expectedErr error
	}{
		{
			name:   "Valid configuration",
			mutate: func(cfg *Config) {},
		},
		{
			name: "Missing github token",
			mutate: func(cfg *Config) {
				cfg.Github.Token = ""
			},
			expectedErr: model.ErrMissingCredentials,
		},
		{
			name: "Missing gemini api key",
			mutate: func(cfg *Config) {
				cfg.Gemini.APIKey = ""
			},
			expectedErr: model.ErrMissingCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefault()
			cfg.Github.Token = "github-token"
			cfg.Gemini.APIKey = "gemini-key"

			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestValidateWithoutModels will test that an empty model chain is refused
func TestValidateWithoutModels(t *testing.T) {
	cfg := GetDefault()
	cfg.Github.Token = "github-token"
	cfg.Gemini.APIKey = "gemini-key"
	cfg.Gemini.Models = nil

	assert.Error(t, cfg.Validate())
}

// TestLoadAppliesEnvironmentCredentials will test the environment overrides
func TestLoadAppliesEnvironmentCredentials(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "token-from-env")
	t.Setenv("GEMINI_API_KEY", "key-from-env")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "token-from-env", cfg.Github.Token)
	assert.Equal(t, "key-from-env", cfg.Gemini.APIKey)

	// defaults cover everything else when no file is found
	assert.Equal(t, GetDefault().API.ListenPort, cfg.API.ListenPort)
}

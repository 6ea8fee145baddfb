package configpaths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigCandidatePaths(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		wantJSON string
		wantYAML string
		wantTOML string
	}{
		{name: "none"},
		{name: "json", user: "/tmp/pad.json", wantJSON: "/tmp/pad.json"},
		{name: "yml", user: "/tmp/pad.yml", wantYAML: "/tmp/pad.yml"},
		{name: "toml", user: "/tmp/pad.toml", wantTOML: "/tmp/pad.toml"},
		{name: "no extension", user: "/tmp/pad", wantJSON: "/tmp/pad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, y, to := ConfigCandidatePaths(tt.user)
			if tt.wantJSON != "" {
				assert.Equal(t, tt.wantJSON, j[0])
			}
			if tt.wantYAML != "" {
				assert.Equal(t, tt.wantYAML, y[0])
			}
			if tt.wantTOML != "" {
				assert.Equal(t, tt.wantTOML, to[0])
			}
			assert.Contains(t, j, filepath.Join(DefaultConfigDir(), "micropad.json"))
			assert.Contains(t, y, filepath.Join(DefaultConfigDir(), "config.yaml"))
			assert.Contains(t, to, filepath.Join(DefaultConfigDir(), "server.toml"))
		})
	}
}

func TestDefaultNamedConfigPath(t *testing.T) {
	assert.Equal(t, filepath.Join(DefaultConfigDir(), "serve.yaml"), DefaultNamedConfigPath("serve", "yml"))
	assert.Equal(t, filepath.Join(DefaultConfigDir(), "config.json"), DefaultConfigPath("bogus"))
	assert.Equal(t, "micropad", filepath.Base(DefaultConfigDir()))
}

package configpaths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

const appName = "micropad"

// configBases are the file base names probed in every directory.
var configBases = []string{"micropad", "config", "server"}

// DefaultConfigDir returns the platform-specific configuration directory.
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// DefaultConfigPath returns the default config file path for the given format using base name "config".
func DefaultConfigPath(format string) string {
	return DefaultNamedConfigPath("config", format)
}

// DefaultNamedConfigPath returns the default config file path for the given format and base name (e.g., "server").
func DefaultNamedConfigPath(baseName, format string) string {
	return filepath.Join(DefaultConfigDir(), baseName+"."+Ext(format))
}

// Ext maps a format name to its file extension. Unknown formats are json.
func Ext(format string) string {
	switch format {
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	}
	return "json"
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// ConfigCandidatePaths builds candidate paths for config files per format.
// If userPath is provided, it is prioritized and routed to the matching loader by extension.
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	add := func(slice *[]string, p string) { *slice = append(*slice, p) }
	addDir := func(dir string) {
		for _, base := range configBases {
			add(&jsonPaths, filepath.Join(dir, base+".json"))
			add(&yamlPaths, filepath.Join(dir, base+".yaml"))
			add(&yamlPaths, filepath.Join(dir, base+".yml"))
			add(&tomlPaths, filepath.Join(dir, base+".toml"))
		}
	}

	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".yaml", ".yml":
			add(&yamlPaths, userPath)
		case ".toml":
			add(&tomlPaths, userPath)
		default:
			add(&jsonPaths, userPath)
		}
	}

	if wd, err := os.Getwd(); err == nil {
		addDir(wd)
	}
	addDir(DefaultConfigDir())
	if runtime.GOOS != "windows" {
		addDir(filepath.Join("/etc", appName))
	}
	return
}

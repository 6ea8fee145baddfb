package combo

import (
	"runtime"
	"strings"

	"github.com/Alia5/micropad/keyboard"
)

// Platform names the host OS family for display purposes.
type Platform string

const (
	PlatformMacOS   Platform = "macos"
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform returns the platform the binary runs on.
func DetectPlatform() Platform {
	return platformFor(runtime.GOOS)
}

func platformFor(goos string) Platform {
	switch goos {
	case "darwin", "ios":
		return PlatformMacOS
	case "windows":
		return PlatformWindows
	case "linux", "android", "freebsd", "openbsd", "netbsd":
		return PlatformLinux
	default:
		return PlatformUnknown
	}
}

// ParsePlatform accepts the names used in configuration and exports
// ("macOS", "Windows", "linux", ...).
func ParsePlatform(s string) Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "macos", "mac", "darwin", "osx":
		return PlatformMacOS
	case "windows", "win":
		return PlatformWindows
	case "linux":
		return PlatformLinux
	default:
		return PlatformUnknown
	}
}

// DisplayName is the human-facing platform name.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformMacOS:
		return "macOS"
	case PlatformWindows:
		return "Windows"
	case PlatformLinux:
		return "Linux"
	default:
		return "Unknown"
	}
}

// PlatformLabel renders c for display on the given platform, e.g.
// "Cmd + Shift + M" on macOS. The stored form is not affected.
func PlatformLabel(c Combo, p Platform) string {
	toks := c.Tokens()
	for i, t := range toks {
		if i == len(toks)-1 {
			break
		}
		if t == keyboard.ModMeta.String() {
			toks[i] = metaLabel(p)
		}
	}
	return strings.Join(toks, " + ")
}

func metaLabel(p Platform) string {
	switch p {
	case PlatformMacOS:
		return "Cmd"
	case PlatformWindows:
		return "Win"
	default:
		return "Meta"
	}
}

var icons = map[string]string{
	"MediaPlay":      "▶",
	"MediaPause":     "⏸",
	"MediaStop":      "⏹",
	"MediaNext":      "⏭",
	"MediaPrev":      "⏮",
	"VolumeUp":       "🔊",
	"VolumeDown":     "🔉",
	"Mute":           "🔇",
	"MediaPlayPause": "⏯",
	"Ctrl+S":         "💾",
	"Ctrl+Z":         "↶",
	"Ctrl+Y":         "↷",
}

// Icon returns a glyph for well-known combos and media keys, or the
// platform label when there is none.
func Icon(c Combo, p Platform) string {
	if icon, ok := icons[c.String()]; ok {
		return icon
	}
	return PlatformLabel(c, p)
}

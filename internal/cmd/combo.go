package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Alia5/micropad/combo"
)

// ComboCommand groups shortcut helpers.
type ComboCommand struct {
	Inspect ComboInspect `cmd:"" help:"Show how a shortcut is normalized, labelled and reported"`
}

// ComboInfo describes one normalized shortcut.
type ComboInfo struct {
	Input     string   `json:"input"`
	Canonical string   `json:"canonical"`
	Tokens    []string `json:"tokens"`
	Label     string   `json:"label"`
	Icon      string   `json:"icon"`
	Modifiers string   `json:"modifiers"`
	Usage     string   `json:"usage"`
	Media     bool     `json:"media"`
}

type ComboInspect struct {
	Combo    string `arg:"" help:"Shortcut text, e.g. \"cmd + shift + m\""`
	Platform string `help:"Label platform: macos, windows, linux (default: this host)"`
	JSON     bool   `help:"Print JSON"`
}

// Run is called by Kong when the combo inspect command is executed.
func (c *ComboInspect) Run(out io.Writer) error {
	cb, err := combo.Parse(c.Combo)
	if err != nil {
		return err
	}
	platform := combo.DetectPlatform()
	if c.Platform != "" {
		platform = combo.ParsePlatform(c.Platform)
	}
	mods, usage := cb.Report()
	info := ComboInfo{
		Input:     c.Combo,
		Canonical: cb.String(),
		Tokens:    cb.Tokens(),
		Label:     combo.PlatformLabel(cb, platform),
		Icon:      combo.Icon(cb, platform),
		Modifiers: fmt.Sprintf("0x%02X", mods),
		Usage:     fmt.Sprintf("0x%02X", usage),
		Media:     cb.Key().Media,
	}
	if c.JSON {
		return json.NewEncoder(out).Encode(info)
	}
	_, err = fmt.Fprintf(out,
		"canonical: %s\ntokens:    %s\nlabel:     %s (%s)\nicon:      %s\nhid:       modifiers %s usage %s\n",
		info.Canonical, strings.Join(info.Tokens, " "), info.Label, platform.DisplayName(), info.Icon, info.Modifiers, info.Usage)
	return err
}

// Package config holds the root command line of the micropad binary.
package config

import (
	"github.com/Alia5/micropad/internal/cmd"
)

// LogConfig configures logging for every command.
type LogConfig struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,warning,error" env:"MICROPAD_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" type:"path" env:"MICROPAD_LOG_FILE"`
	RawFile string `help:"Write a hex dump of all serial traffic to this file" type:"path" env:"MICROPAD_LOG_RAW_FILE"`
}

// CLI is the kong root.
type CLI struct {
	ConfigFile string    `name:"config" help:"Configuration file (json, yaml or toml)" type:"path" env:"MICROPAD_CONFIG"`
	Log        LogConfig `embed:"" prefix:"log."`

	cmd.Workspace `embed:""`

	Ports      cmd.Ports         `cmd:"" help:"List serial ports"`
	Show       cmd.Show          `cmd:"" help:"Show profiles as key grids"`
	Assign     cmd.Assign        `cmd:"" help:"Assign a shortcut to a key and save"`
	Clear      cmd.Clear         `cmd:"" help:"Unassign a key and save"`
	Swap       cmd.Swap          `cmd:"" help:"Swap two keys and save"`
	Preset     cmd.Preset        `cmd:"" help:"Replace a profile with a built-in preset and save"`
	Capture    cmd.Capture       `cmd:"" help:"Capture a shortcut from the keyboard for a key"`
	Push       cmd.Push          `cmd:"" help:"Send a profile to the device"`
	SaveDevice cmd.SaveDevice    `cmd:"" name:"save-device" help:"Ask the device to persist its mapping"`
	Query      cmd.Query         `cmd:"" help:"Read the mapping the device holds"`
	Execute    cmd.Execute       `cmd:"" help:"Fire the shortcut stored at a key"`
	Monitor    cmd.Monitor       `cmd:"" help:"Print device messages until interrupted"`
	Export     cmd.ExportCmd     `cmd:"" help:"Export a profile as json, yaml or toml"`
	Combo      cmd.ComboCommand  `cmd:"" help:"Shortcut helpers"`
	Serve      cmd.Serve         `cmd:"" help:"Run the local control API"`
	Config     cmd.ConfigCommand `cmd:"" help:"Configuration helpers"`
	Install    cmd.Install       `cmd:"" help:"Install the control API as a systemd user service"`
	Uninstall  cmd.Uninstall     `cmd:"" help:"Remove the systemd user service"`
}

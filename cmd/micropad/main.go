package main

import (
	"io"
	"os"
	"strings"

	"github.com/Alia5/micropad/internal/config"
	"github.com/Alia5/micropad/internal/configpaths"
	"github.com/Alia5/micropad/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {
	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("micropad"),
		kong.Description("Configure the Micropad 3x3 macro keypad"),
		kong.UsageOnError(),
		kong.DefaultEnvars("MICROPAD"),
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	rawLogger, rawCloser, err := log.OpenRaw(cli.Log.RawFile, log.ParseLevel(cli.Log.Level))
	if err != nil {
		logger.Error("failed to open raw log file", "file", cli.Log.RawFile, "error", err)
		rawLogger = log.NewRaw(nil)
	} else if rawCloser != nil {
		closeFiles = append(closeFiles, rawCloser)
	}

	ctx.Bind(logger)
	ctx.Bind(&cli.Workspace)
	ctx.BindTo(rawLogger, (*log.RawLogger)(nil))
	ctx.BindTo(os.Stdout, (*io.Writer)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("MICROPAD_CONFIG"); v != "" {
		return v
	}
	return ""
}

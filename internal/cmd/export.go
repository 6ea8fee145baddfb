package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/internal/configpaths"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// Export is the shape written by the export command.
type Export struct {
	OS      string     `json:"os" yaml:"os" toml:"os"`
	Profile string     `json:"profile" yaml:"profile" toml:"profile"`
	Mapping [][]string `json:"mapping" yaml:"mapping" toml:"mapping"`
}

type ExportCmd struct {
	Profile string `help:"Profile to export (default: first profile)" short:"p"`
	Format  string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output  string `help:"Write to a file instead of stdout" short:"o"`
}

// Run is called by Kong when the export command is executed.
func (e *ExportCmd) Run(ws *Workspace, logger *slog.Logger, out io.Writer) error {
	sess, err := ws.Open(logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	v, err := sess.Profile(profileOrActive(sess, e.Profile))
	if err != nil {
		return err
	}
	doc := Export{
		OS:      combo.DetectPlatform().DisplayName(),
		Profile: v.ID,
		Mapping: v.Rows,
	}
	data, err := marshalFormat(doc, e.Format)
	if err != nil {
		return err
	}

	if e.Output == "" {
		_, err = out.Write(data)
		return err
	}
	if err := configpaths.EnsureDir(e.Output); err != nil {
		return err
	}
	if err := os.WriteFile(e.Output, data, 0o644); err != nil {
		return err
	}
	logger.Info("profile exported", "profile", v.ID, "file", e.Output, "format", e.Format)
	return nil
}

func marshalFormat(v any, format string) ([]byte, error) {
	switch normalizeFormat(format) {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(v)
	case "toml":
		return toml.Marshal(v)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

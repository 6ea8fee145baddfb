package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/Alia5/micropad/internal/render"
	"github.com/Alia5/micropad/link"
)

type Ports struct {
	JSON bool `help:"Print JSON instead of a table"`

	list func() ([]link.PortInfo, error) `kong:"-"`
}

// Run is called by Kong when the ports command is executed.
func (p *Ports) Run(logger *slog.Logger, out io.Writer) error {
	list := p.list
	if list == nil {
		list = link.ListPorts
	}
	ports, err := list()
	if err != nil {
		return err
	}
	logger.Debug("serial ports enumerated", "count", len(ports))

	if p.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ports)
	}
	if len(ports) == 0 {
		_, err := fmt.Fprintln(out, "no serial ports found")
		return err
	}
	rows := make([][]string, 0, len(ports))
	for _, pi := range ports {
		usb := ""
		if pi.USB {
			usb = "yes"
		}
		rows = append(rows, []string{pi.Name, usb, pi.VID, pi.PID, pi.Product})
	}
	_, err = fmt.Fprintln(out, render.Table([]string{"PORT", "USB", "VID", "PID", "PRODUCT"}, rows))
	return err
}

package link

import (
	"fmt"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// DefaultBaud is the Micropad firmware's serial speed.
const DefaultBaud = 115200

// SerialConfig describes the port to open.
type SerialConfig struct {
	Port        string        `help:"Serial port of the Micropad (e.g. /dev/ttyACM0, COM3)" env:"MICROPAD_PORT"`
	Baud        int           `help:"Serial baud rate" default:"115200"`
	Delay       time.Duration `help:"Pause between consecutive commands" default:"50ms"`
	ReadTimeout time.Duration `help:"Serial read timeout; reads return periodically so the link can shut down" default:"200ms"`
}

// Open opens the serial port (8N1) and wraps it in a Link.
func Open(cfg SerialConfig, o Options) (*Link, error) {
	if cfg.Port == "" {
		return nil, fmt.Errorf("%w: no serial port given", ErrNotConnected)
	}
	baud := cfg.Baud
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.Open(cfg.Port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrNotConnected, cfg.Port, err)
	}
	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("%w: configure %s: %v", ErrTransportFailure, cfg.Port, err)
		}
	}
	if o.Delay == 0 {
		o.Delay = cfg.Delay
	}
	if o.Logger != nil {
		o.Logger.Info("opened serial port", "port", cfg.Port, "baud", baud)
	}
	return New(port, o), nil
}

// PortInfo describes a serial port found on the host.
type PortInfo struct {
	Name    string `json:"name"`
	USB     bool   `json:"usb"`
	VID     string `json:"vid,omitempty"`
	PID     string `json:"pid,omitempty"`
	Serial  string `json:"serial,omitempty"`
	Product string `json:"product,omitempty"`
}

// ListPorts enumerates serial ports with their USB identifiers where known.
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		names, lerr := serial.GetPortsList()
		if lerr != nil {
			return nil, fmt.Errorf("list serial ports: %w", err)
		}
		out := make([]PortInfo, 0, len(names))
		for _, n := range names {
			out = append(out, PortInfo{Name: n})
		}
		return out, nil
	}
	out := make([]PortInfo, 0, len(details))
	for _, d := range details {
		out = append(out, PortInfo{
			Name:    d.Name,
			USB:     d.IsUSB,
			VID:     d.VID,
			PID:     d.PID,
			Serial:  d.SerialNumber,
			Product: d.Product,
		})
	}
	return out, nil
}

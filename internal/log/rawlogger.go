package log

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"
)

// RawLogger records serial traffic.
type RawLogger interface {
	Log(in bool, data []byte)
}

type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. A nil writer yields a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Log emits one line per chunk with timestamp, hex dump and quoted text.
// in=true means device->host, in=false means host->device.
func (r *rawLogger) Log(in bool, data []byte) {
	if len(data) == 0 || r.w == nil {
		return
	}

	dir := "H->D"
	if in {
		dir = "D->H"
	}

	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range data {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}

	line := fmt.Sprintf("%s %s %d bytes, hex: %s, text: %s\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		dir,
		len(data),
		hexbuf.String(),
		strconv.Quote(string(data)))

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}

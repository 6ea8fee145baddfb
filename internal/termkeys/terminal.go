package termkeys

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Alia5/micropad/combo"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when raw capture is requested on a pipe or file.
var ErrNotTerminal = errors.New("input is not a terminal")

// Reader yields key events read from r.
type Reader struct {
	r   io.Reader
	buf []byte
}

// NewReader reads events from r, which should be a raw-mode terminal.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, buf: make([]byte, 64)}
}

// Next blocks for the next read and returns its events; a read that holds
// no recognizable key yields an empty slice.
func (r *Reader) Next() ([]combo.KeyEvent, error) {
	n, err := r.r.Read(r.buf)
	if n > 0 {
		return Decode(r.buf[:n]), nil
	}
	if err == nil {
		return nil, nil
	}
	return nil, err
}

// Raw switches f into raw mode. The returned function restores it.
func Raw(f *os.File) (restore func() error, err error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enable raw mode: %w", err)
	}
	return func() error {
		if err := term.Restore(fd, state); err != nil {
			return fmt.Errorf("failed to restore terminal: %w", err)
		}
		return nil
	}, nil
}

package wikidump

import (
	"io"
	"net/http"
)

type errFlusher interface {
	Flush() error
}

// A FlushWriter pushes every write through to the underlying writer
// before returning.
//
// Writers that buffer, like *bufio.Writer or an http.Flusher, are
// flushed after each write.  Anything else is written straight through.
// The tools install one around stderr with log.SetOutput.
type FlushWriter struct {
	w io.Writer
}

// NewFlushWriter gets a FlushWriter writing to w.
func NewFlushWriter(w io.Writer) *FlushWriter {
	return &FlushWriter{w: w}
}

func (f *FlushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		return n, err
	}
	return n, f.flush()
}

// WriteString writes s and flushes.
func (f *FlushWriter) WriteString(s string) (int, error) {
	n, err := io.WriteString(f.w, s)
	if err != nil {
		return n, err
	}
	return n, f.flush()
}

func (f *FlushWriter) flush() error {
	switch w := f.w.(type) {
	case errFlusher:
		return w.Flush()
	case http.Flusher:
		w.Flush()
	}
	return nil
}

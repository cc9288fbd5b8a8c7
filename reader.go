package wikidump

import (
	"io"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// A Dump reads pages out of a dump file by boundary.
//
// Every read is positioned independently, so pages may be read in any
// order and as often as needed.
type Dump struct {
	f    *os.File
	name string
	size int64
}

// OpenDump opens the named dump file for page reads.
func OpenDump(filename string) (*Dump, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening dump %v", filename)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "examining dump %v", filename)
	}
	return &Dump{f: f, name: filename, size: st.Size()}, nil
}

// Size is the length of the dump in bytes.
func (d *Dump) Size() int64 {
	return d.size
}

// Page gets the text within the given boundary.
func (d *Dump) Page(b Boundary) (string, error) {
	if err := b.Validate(d.size); err != nil {
		return "", err
	}
	data := make([]byte, b.Len())
	_, err := io.ReadFull(io.NewSectionReader(d.f, b.Start, b.Len()), data)
	if err != nil {
		return "", errors.Wrapf(err, "reading %v from %v", b, d.name)
	}
	if !utf8.Valid(data) {
		return "", errors.Wrapf(ErrDecode, "%v in %v", b, d.name)
	}
	return string(data), nil
}

// Close releases the dump file.
func (d *Dump) Close() error {
	return d.f.Close()
}

// ReadPage gets the text within the given boundary of the named dump.
func ReadPage(filename string, b Boundary) (string, error) {
	d, err := OpenDump(filename)
	if err != nil {
		return "", err
	}
	defer d.Close()
	return d.Page(b)
}

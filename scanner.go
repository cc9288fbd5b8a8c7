package wikidump

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

// DefaultMarker opens every page in a mediawiki dump.
const DefaultMarker = "<page>"

const readBufferSize = 64 * 1024

// cursor finds page boundaries in a stream of lines.  BoundaryScanner
// and PageScanner are projections of the same cursor.
//
// A line is everything up to and including '\n', or the unterminated
// tail of the stream.  Only the first marker within a line is seen; a
// second <page> on the same line stays inside the page the first one
// opened.
type cursor struct {
	r      *bufio.Reader
	closer io.Closer
	marker []byte
	limit  int

	pages int
	start int64
	end   int64
	eof   bool
	done  bool

	line []byte

	// keep retains the bytes of the page in progress in buf.
	keep bool
	buf  []byte
}

func newCursor(r io.Reader, marker string, limit int, keep bool) *cursor {
	if marker == "" {
		marker = DefaultMarker
	}
	return &cursor{
		r:      bufio.NewReaderSize(r, readBufferSize),
		marker: []byte(marker),
		limit:  limit,
		keep:   keep,
	}
}

func openCursor(filename, marker string, limit int, keep bool) (*cursor, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening dump %v", filename)
	}
	c := newCursor(f, marker, limit, keep)
	c.closer = f
	return c, nil
}

// readLine reassembles lines longer than the read buffer, so a marker
// is never split across two reads.
func (c *cursor) readLine() ([]byte, error) {
	c.line = c.line[:0]
	for {
		frag, err := c.r.ReadSlice('\n')
		c.line = append(c.line, frag...)
		if err != bufio.ErrBufferFull {
			return c.line, err
		}
	}
}

func (c *cursor) advance(line []byte) {
	c.end += int64(len(line))
	if c.keep {
		c.buf = append(c.buf, line...)
	}
}

// next returns the index and span of the next page, along with its
// bytes when the cursor keeps them.  io.EOF marks the end.
func (c *cursor) next() (int, Boundary, []byte, error) {
	for !c.done {
		if c.eof {
			return c.finish()
		}

		line, err := c.readLine()
		if err == io.EOF {
			c.eof = true
		} else if err != nil {
			c.stop()
			return 0, Boundary{}, nil,
				errors.Wrapf(err, "reading dump at offset %v", c.end)
		}

		i := bytes.Index(line, c.marker)
		if i < 0 {
			c.advance(line)
			continue
		}

		c.pages++
		b := Boundary{Start: c.start, End: c.end + int64(i)}
		var text []byte
		if c.keep {
			text = append(c.buf, line[:i]...)
			c.buf = append([]byte(nil), line[i:]...)
		}
		c.start = b.End
		c.end += int64(len(line))

		if c.limit > 0 && c.pages >= c.limit {
			c.stop()
		}
		return c.pages, b, text, nil
	}
	return 0, Boundary{}, nil, io.EOF
}

// finish emits whatever follows the last marker.
func (c *cursor) finish() (int, Boundary, []byte, error) {
	c.stop()
	text := c.buf
	c.buf = nil
	return c.pages + 1, Boundary{Start: c.start, End: c.end}, text, nil
}

func (c *cursor) stop() error {
	c.done = true
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}

// A BoundaryScanner emits the byte range of every page in a dump.
//
// The first range starts at 0, so whatever precedes the first <page>
// (the <mediawiki> header and siteinfo) is part of page 1.  After the
// last marker a final range covers the rest of the file; it's empty if
// the file ends on a marker.  With a limit, scanning stops at the
// limit'th marker and no final range is emitted.
type BoundaryScanner struct {
	c *cursor
}

// NewBoundaryScanner gets a scanner over the given reader.
//
// An empty marker means DefaultMarker; a limit of 0 means no limit.
func NewBoundaryScanner(r io.Reader, marker string, limit int) *BoundaryScanner {
	return &BoundaryScanner{c: newCursor(r, marker, limit, false)}
}

// OpenBoundaryScanner gets a scanner over the named dump file.
//
// The file is closed when the scan ends, fails, or is Closed.
func OpenBoundaryScanner(filename, marker string, limit int) (*BoundaryScanner, error) {
	c, err := openCursor(filename, marker, limit, false)
	if err != nil {
		return nil, err
	}
	return &BoundaryScanner{c: c}, nil
}

// Next gets the 1-based index and range of the next page.
//
// Returns io.EOF once all ranges have been emitted.
func (s *BoundaryScanner) Next() (int, Boundary, error) {
	i, b, _, err := s.c.next()
	return i, b, err
}

// Close abandons the scan and releases the dump file.
func (s *BoundaryScanner) Close() error {
	return s.c.stop()
}

// Boundaries scans the named dump and returns every page range.
func Boundaries(filename, marker string, limit int) ([]Boundary, error) {
	s, err := OpenBoundaryScanner(filename, marker, limit)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var rv []Boundary
	for {
		_, b, err := s.Next()
		if err == io.EOF {
			return rv, nil
		}
		if err != nil {
			return nil, err
		}
		rv = append(rv, b)
	}
}

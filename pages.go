package wikidump

import "io"

// A PageScanner emits the text of every page in a dump.
//
// Pages are split exactly where a BoundaryScanner would split them, so
// the text of page n equals ReadPage of the n'th boundary.
type PageScanner struct {
	c *cursor
}

// NewPageScanner gets a page text scanner over the given reader.
func NewPageScanner(r io.Reader, marker string, limit int) *PageScanner {
	return &PageScanner{c: newCursor(r, marker, limit, true)}
}

// OpenPageScanner gets a page text scanner over the named dump file.
func OpenPageScanner(filename, marker string, limit int) (*PageScanner, error) {
	c, err := openCursor(filename, marker, limit, true)
	if err != nil {
		return nil, err
	}
	return &PageScanner{c: c}, nil
}

// Next gets the 1-based index and text of the next page.
func (s *PageScanner) Next() (int, string, error) {
	i, _, text, err := s.c.next()
	return i, string(text), err
}

// NextBoundary is Next, along with the page's range.
func (s *PageScanner) NextBoundary() (int, Boundary, string, error) {
	i, b, text, err := s.c.next()
	return i, b, string(text), err
}

// Close abandons the scan and releases the dump file.
func (s *PageScanner) Close() error {
	return s.c.stop()
}

package wikidump

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedBoundary is returned when a boundary can't describe a
// span of the dump: it runs backwards, starts before zero, or ends
// past the end of the file.
var ErrMalformedBoundary = errors.New("malformed boundary")

// ErrDecode is returned when the bytes of a boundary aren't valid UTF-8.
var ErrDecode = errors.New("page is not valid utf-8")

// A Boundary is the byte span of one page within a dump.
//
// Start is inclusive, End is exclusive.
type Boundary struct {
	Start int64
	End   int64
}

// Len is the number of bytes covered by the boundary.
func (b Boundary) Len() int64 {
	return b.End - b.Start
}

func (b Boundary) String() string {
	return fmt.Sprintf("%v:%v", b.Start, b.End)
}

// Validate checks the boundary fits within a dump of the given size.
func (b Boundary) Validate(size int64) error {
	switch {
	case b.Start < 0 || b.End < 0:
		return errors.Wrapf(ErrMalformedBoundary, "negative offset in %v", b)
	case b.Start > b.End:
		return errors.Wrapf(ErrMalformedBoundary, "%v ends before it starts", b)
	case b.End > size:
		return errors.Wrapf(ErrMalformedBoundary,
			"%v is beyond the end of a %v byte dump", b, size)
	}
	return nil
}

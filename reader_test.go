package wikidump

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestReadPageRoundTrip(t *testing.T) {
	fn := writeDump(t, sampleDump)
	bounds, err := Boundaries(fn, "", 0)
	if err != nil {
		t.Fatalf("Error collecting boundaries: %v", err)
	}

	d, err := OpenDump(fn)
	if err != nil {
		t.Fatalf("Error opening dump: %v", err)
	}
	defer d.Close()

	if d.Size() != int64(len(sampleDump)) {
		t.Fatalf("Expected size %v, got %v", len(sampleDump), d.Size())
	}

	// Backwards, to show reads don't depend on each other.
	pages := make([]string, len(bounds))
	for i := len(bounds) - 1; i >= 0; i-- {
		pages[i], err = d.Page(bounds[i])
		if err != nil {
			t.Fatalf("Error reading %v: %v", bounds[i], err)
		}
	}
	if got := strings.Join(pages, ""); got != sampleDump {
		t.Fatalf("Expected pages to reassemble the dump, got\n%s", got)
	}

	again, err := d.Page(bounds[2])
	if err != nil {
		t.Fatalf("Error rereading %v: %v", bounds[2], err)
	}
	if again != pages[2] {
		t.Errorf("Expected %q on reread, got %q", pages[2], again)
	}
	if !strings.Contains(again, "Zrínyi Miklós") {
		t.Errorf("Expected the Anarchism page, got %q", again)
	}
}

func TestReadPageMalformed(t *testing.T) {
	fn := writeDump(t, "aaa\n<page>bbb\n<page>ccc\n")
	tests := []Boundary{
		{10, 5},
		{-1, 4},
		{0, 25},
		{30, 40},
	}
	for _, b := range tests {
		text, err := ReadPage(fn, b)
		if !errors.Is(err, ErrMalformedBoundary) {
			t.Errorf("Expected malformed boundary error for %v, got %q, %v", b, text, err)
		}
	}

	text, err := ReadPage(fn, Boundary{24, 24})
	if err != nil || text != "" {
		t.Errorf("Expected empty page at the end, got %q, %v", text, err)
	}
}

func TestReadPageDecode(t *testing.T) {
	fn := writeDump(t, "aé\n")
	_, err := ReadPage(fn, Boundary{0, 2})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Expected decode error, got %v", err)
	}
	text, err := ReadPage(fn, Boundary{0, 3})
	if err != nil || text != "aé" {
		t.Fatalf("Expected %q, got %q, %v", "aé", text, err)
	}
}

func TestReadPageMissing(t *testing.T) {
	_, err := ReadPage(filepath.Join(t.TempDir(), "nope.xml"), Boundary{0, 1})
	if !os.IsNotExist(errors.Cause(err)) {
		t.Fatalf("Expected not exist error, got %v", err)
	}
}

func TestBoundaryString(t *testing.T) {
	b := Boundary{4, 14}
	if b.String() != "4:14" {
		t.Errorf("Expected 4:14, got %v", b)
	}
	if b.Len() != 10 {
		t.Errorf("Expected length 10, got %v", b.Len())
	}
}

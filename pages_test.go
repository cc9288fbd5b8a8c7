package wikidump

import (
	"io"
	"strings"
	"testing"
)

func TestPageScanner(t *testing.T) {
	fn := writeDump(t, sampleDump)
	bounds, err := Boundaries(fn, "", 0)
	if err != nil {
		t.Fatalf("Error collecting boundaries: %v", err)
	}

	s, err := OpenPageScanner(fn, "", 0)
	if err != nil {
		t.Fatalf("Error opening page scanner: %v", err)
	}
	defer s.Close()

	var all strings.Builder
	for n := 0; ; n++ {
		i, b, text, err := s.NextBoundary()
		if err == io.EOF {
			if n != len(bounds) {
				t.Fatalf("Expected %v pages, got %v", len(bounds), n)
			}
			break
		}
		if err != nil {
			t.Fatalf("Error scanning pages: %v", err)
		}
		if i != n+1 {
			t.Errorf("Expected index %v, got %v", n+1, i)
		}
		if b != bounds[n] {
			t.Errorf("Expected boundary %v, got %v", bounds[n], b)
		}
		exp, err := ReadPage(fn, b)
		if err != nil {
			t.Fatalf("Error reading %v: %v", b, err)
		}
		if text != exp {
			t.Errorf("Expected page %v to be %q, got %q", i, exp, text)
		}
		all.WriteString(text)
	}
	if all.String() != sampleDump {
		t.Fatalf("Pages don't reassemble the dump:\n%s", all.String())
	}
}

func TestPageScannerSplitsLines(t *testing.T) {
	input := "head <page>one\n<page>two"
	expected := []string{"head ", "<page>one\n", "<page>two"}

	s := NewPageScanner(strings.NewReader(input), "", 0)
	for _, e := range expected {
		_, text, err := s.Next()
		if err != nil {
			t.Fatalf("Error scanning: %v", err)
		}
		if text != e {
			t.Errorf("Expected %q, got %q", e, text)
		}
	}
	if _, _, err := s.Next(); err != io.EOF {
		t.Fatalf("Expected EOF, got %v", err)
	}
}

func TestPageScannerLimit(t *testing.T) {
	s := NewPageScanner(strings.NewReader(sampleDump), "", 2)
	var got []string
	for {
		_, text, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Error scanning: %v", err)
		}
		got = append(got, text)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 pages, got %v", len(got))
	}
	if !strings.HasPrefix(got[0], "<mediawiki") {
		t.Errorf("Expected the header in the first page, got %q", got[0])
	}
	if !strings.Contains(got[1], "AccessibleComputing") {
		t.Errorf("Expected AccessibleComputing in the second page, got %q", got[1])
	}
}

func TestPageScannerEmpty(t *testing.T) {
	s := NewPageScanner(strings.NewReader(""), "", 0)
	i, text, err := s.Next()
	if err != nil {
		t.Fatalf("Error scanning: %v", err)
	}
	if i != 1 || text != "" {
		t.Fatalf("Expected an empty first page, got %v %q", i, text)
	}
	if _, _, err := s.Next(); err != io.EOF {
		t.Fatalf("Expected EOF, got %v", err)
	}
}

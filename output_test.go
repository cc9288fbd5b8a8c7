package wikidump

import (
	"bufio"
	"bytes"
	"log"
	"net/http/httptest"
	"testing"
)

func TestFlushWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewFlushWriter(bufio.NewWriter(buf))

	if _, err := w.Write([]byte("hello ")); err != nil {
		t.Fatalf("Error writing: %v", err)
	}
	if buf.String() != "hello " {
		t.Fatalf("Expected write to be flushed, got %q", buf.String())
	}
	if _, err := w.WriteString("world"); err != nil {
		t.Fatalf("Error writing: %v", err)
	}
	if buf.String() != "hello world" {
		t.Fatalf("Expected write to be flushed, got %q", buf.String())
	}

	l := log.New(w, "", 0)
	l.Printf("Processed %v pages", 3)
	if buf.String() != "hello worldProcessed 3 pages\n" {
		t.Fatalf("Expected log line to be flushed, got %q", buf.String())
	}
}

func TestFlushWriterPlain(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewFlushWriter(buf)
	if _, err := w.Write([]byte("straight through")); err != nil {
		t.Fatalf("Error writing: %v", err)
	}
	if buf.String() != "straight through" {
		t.Fatalf("Expected %q, got %q", "straight through", buf.String())
	}
}

func TestFlushWriterHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewFlushWriter(rec)
	if _, err := w.WriteString("progress\n"); err != nil {
		t.Fatalf("Error writing: %v", err)
	}
	if !rec.Flushed {
		t.Fatalf("Expected the response to be flushed")
	}
	if rec.Body.String() != "progress\n" {
		t.Fatalf("Expected %q, got %q", "progress\n", rec.Body.String())
	}
}

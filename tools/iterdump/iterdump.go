// Iterate over the pages of an uncompressed wikipedia dump.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikidump"
)

var (
	limit  = flag.Int("limit", 0, "Stop after this many pages (0 for all)")
	marker = flag.String("marker", wikidump.DefaultMarker, "Text that opens a page")
	page   = flag.Int("page", 0, "Print only the text of this page")
	text   = flag.Bool("text", false, "Print page text instead of offsets")
)

func init() {
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n  %s [opts] dump.xml\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func listDumpfiles() {
	infos, err := ioutil.ReadDir(".")
	if err != nil {
		log.Fatalf("Error listing directory: %v", err)
	}
	var names []string
	for _, fi := range infos {
		if strings.Contains(fi.Name(), ".sql") || strings.Contains(fi.Name(), ".xml") {
			names = append(names, fi.Name())
		}
	}
	fmt.Println("possible dumpfiles:", names)
}

func printBoundaries(fn string) {
	s, err := wikidump.OpenBoundaryScanner(fn, *marker, *limit)
	if err != nil {
		log.Fatalf("Error opening dump: %v", err)
	}
	defer s.Close()

	pages := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(100000)
	var b wikidump.Boundary
	for {
		var i int
		i, b, err = s.Next()
		if err != nil {
			break
		}
		fmt.Printf("%v\t%v\t%v\n", i, b.Start, b.End)

		pages++
		if pages%reportfreq == 0 {
			now := time.Now()
			d := now.Sub(prev)
			log.Printf("Indexed %s pages, %s (%.2f/s)",
				humanize.Comma(pages), humanize.Bytes(uint64(b.End)),
				float64(reportfreq)/d.Seconds())
			prev = now
		}
	}
	if err != io.EOF {
		log.Fatalf("Error scanning %v after %s pages: %v",
			fn, humanize.Comma(pages), err)
	}
	log.Printf("Indexed %s pages in %v", humanize.Comma(pages), time.Since(start))
}

func printPages(fn string) {
	s, err := wikidump.OpenPageScanner(fn, *marker, *limit)
	if err != nil {
		log.Fatalf("Error opening dump: %v", err)
	}
	defer s.Close()

	for {
		i, t, err := s.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Fatalf("Error scanning %v: %v", fn, err)
		}
		fmt.Printf("==== %v (%s)\n%s", i, humanize.Bytes(uint64(len(t))), t)
	}
}

// printPage finds the boundary of page n, abandons the scan and reads
// the page back by offset.
func printPage(fn string, n int) {
	s, err := wikidump.OpenBoundaryScanner(fn, *marker, n)
	if err != nil {
		log.Fatalf("Error opening dump: %v", err)
	}
	var b wikidump.Boundary
	found := false
	for !found {
		var i int
		i, b, err = s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Error scanning %v: %v", fn, err)
		}
		found = i == n
	}
	s.Close()
	if !found {
		log.Fatalf("%v has fewer than %v pages", fn, n)
	}

	t, err := wikidump.ReadPage(fn, b)
	if err != nil {
		log.Fatalf("Error reading page %v at %v: %v", n, b, err)
	}
	fmt.Print(t)
}

func main() {
	flag.Parse()
	log.SetOutput(wikidump.NewFlushWriter(os.Stderr))

	if flag.NArg() == 0 {
		listDumpfiles()
		return
	}
	fn := flag.Arg(0)
	log.Printf("Reading %v", fn)

	switch {
	case *page > 0:
		printPage(fn, *page)
	case *text:
		printPages(fn)
	default:
		printBoundaries(fn)
	}
}

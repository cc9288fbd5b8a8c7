// Load the pages of a wikipedia dump into CouchBase
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/couchbase/go-couchbase"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikidump"
)

var numWorkers = flag.Int("numWorkers", 8, "Number of page workers")
var limit = flag.Int("limit", 0, "Stop after this many pages (0 for all)")

var wg sync.WaitGroup

func init() {
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"Usage:\n  %s [opts] wikipedia.xml\n",
		os.Args[0])
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

type Page struct {
	Index int    `json:"index"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Text  string `json:"text"`
}

func (p *Page) key() string {
	return fmt.Sprintf("page-%010d", p.Index)
}

func pageHandler(db *couchbase.Bucket, ch <-chan *Page) {
	defer wg.Done()
	for p := range ch {
		if err := db.Set(p.key(), 0, p); err != nil {
			log.Printf("Error setting %v: %v", p.key(), err)
		}
	}
}

func main() {
	couchbaseServer := flag.String("couchbase", "http://localhost:8091/",
		"Couchbase URL")
	couchbaseBucket := flag.String("bucket", "default", "Couchbase bucket")
	procs := flag.Int("cpus", runtime.NumCPU(), "Number of CPUS to use")
	flag.Parse()

	runtime.GOMAXPROCS(*procs)
	log.SetOutput(wikidump.NewFlushWriter(os.Stderr))

	if flag.NArg() != 1 {
		usage()
	}

	db, err := couchbase.GetBucket(*couchbaseServer,
		"default", *couchbaseBucket)
	if err != nil {
		log.Fatalf("Error connecting to couchbase: %v", err)
	}
	defer db.Close()

	p, err := wikidump.OpenPageScanner(flag.Arg(0), "", *limit)
	if err != nil {
		log.Fatalf("Error opening dump: %v", err)
	}
	defer p.Close()

	ch := make(chan *Page, 1000)

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go pageHandler(db, ch)
	}

	pages := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(1000)
	for err == nil {
		page := &Page{}
		var b wikidump.Boundary
		page.Index, b, page.Text, err = p.NextBoundary()
		if err != nil {
			break
		}
		page.Start, page.End = b.Start, b.End
		ch <- page

		pages++
		if pages%reportfreq == 0 {
			now := time.Now()
			d := now.Sub(prev)
			log.Printf("Processed %s pages total (%.2f/s)",
				humanize.Comma(pages), float64(reportfreq)/d.Seconds())
			prev = now
		}
	}
	close(ch)
	wg.Wait()
	if err != io.EOF {
		log.Printf("Error scanning dump: %v", err)
	}
	log.Printf("Ended after %v after %s pages",
		time.Since(start), humanize.Comma(pages))
}

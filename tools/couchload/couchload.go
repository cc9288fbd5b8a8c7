// Load the pages of a wikipedia dump into CouchDB
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-couch"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikidump"
	"github.com/dustin/httputil"
)

var wg sync.WaitGroup

type Page struct {
	ID    string `json:"_id"`
	Rev   string `json:"_rev,omitempty"`
	Index int    `json:"index"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Text  string `json:"text"`
}

// replace overwrites the copy of a page left by an earlier load.
func replace(db *couch.Database, p *Page) {
	log.Printf("Replacing %s", p.ID)
	var prev Page
	err := db.Retrieve(p.ID, &prev)
	if err != nil {
		log.Printf("  Error retrieving existing %v: %v", p.ID, err)
		return
	}
	if prev.Rev == "" {
		log.Printf("Got no rev from %v", p.ID)
		return
	}
	_, err = db.EditWith(p, p.ID, prev.Rev)
	if err != nil {
		log.Printf("  Error updating %v: %v", prev.ID, err)
	}
}

// conflict reports whether an insert lost to an existing document.
func conflict(err error) bool {
	return httputil.IsHTTPStatus(err, http.StatusConflict)
}

func doPage(db *couch.Database, p *Page) {
	_, _, err := db.Insert(p)
	switch {
	case err == nil:
		// yay
	case conflict(err):
		replace(db, p)
	default:
		log.Printf("Error inserting %v: %v", p.ID, err)
	}
}

func pageHandler(db couch.Database, ch <-chan *Page) {
	defer wg.Done()
	for p := range ch {
		doPage(&db, p)
	}
}

func main() {
	log.SetOutput(wikidump.NewFlushWriter(os.Stderr))
	if len(os.Args) < 3 {
		log.Fatalf("Usage: %s couchdb_url wikipedia.xml [limit]", os.Args[0])
	}
	dburl, file := os.Args[1], os.Args[2]
	limit := 0
	if len(os.Args) > 3 {
		var err error
		limit, err = strconv.Atoi(os.Args[3])
		if err != nil {
			log.Fatalf("Bad limit %q: %v", os.Args[3], err)
		}
	}

	db, err := couch.Connect(dburl)
	if err != nil {
		log.Fatalf("Error connecting to couchdb: %v", err)
	}

	p, err := wikidump.OpenPageScanner(file, "", limit)
	if err != nil {
		log.Fatalf("Error opening dump: %v", err)
	}
	defer p.Close()

	ch := make(chan *Page, 1000)

	for i := 0; i < 20; i++ {
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
		page.ID = fmt.Sprintf("page-%010d", page.Index)
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

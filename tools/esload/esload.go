// Load the pages of a wikipedia dump into ElasticSearch
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-elasticsearch"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikidump"
)

var index = flag.String("index", "wikipedia", "ElasticSearch index")
var limit = flag.Int("limit", 0, "Stop after this many pages (0 for all)")

var wg = sync.WaitGroup{}

type page struct {
	index int
	b     wikidump.Boundary
	text  string
}

func pageHandler(u string, ch <-chan page) {
	defer wg.Done()
	counter := 0
	es := elasticsearch.ElasticSearch{URL: u}
	bulkLoader := es.Bulk()

	for p := range ch {
		counter++
		if counter > 1000 {
			bulkLoader.SendBatch()
			counter = 0
		}
		ui := elasticsearch.UpdateInstruction{
			Id:    strconv.Itoa(p.index),
			Index: *index,
			Type:  "page",
			Body: map[string]interface{}{
				"index": p.index,
				"start": p.b.Start,
				"end":   p.b.End,
				"text":  p.text,
			},
		}
		bulkLoader.Update(&ui)
	}
	bulkLoader.SendBatch()
	bulkLoader.Quit()
}

func main() {
	flag.Parse()
	log.SetOutput(wikidump.NewFlushWriter(os.Stderr))
	if flag.NArg() != 2 {
		log.Fatalf("Usage: %s [opts] wikipedia.xml esurl", os.Args[0])
	}
	filename, esurl := flag.Arg(0), flag.Arg(1)

	p, err := wikidump.OpenPageScanner(filename, "", *limit)
	if err != nil {
		log.Fatalf("Error opening dump: %v", err)
	}
	defer p.Close()

	ch := make(chan page, 1000)

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go pageHandler(esurl, ch)
	}

	pages := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(1000)
	for err == nil {
		var pg page
		pg.index, pg.b, pg.text, err = p.NextBoundary()
		if err != nil {
			break
		}
		ch <- pg

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

package main

import (
	"flag"
	"io"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikidump"
	"gopkg.in/mgo.v2"
)

var proc = flag.Int("proc", 8, "How many processes to run.")
var file = flag.String("file", "", "The uncompressed dump file.")
var cpus = flag.Int("cpus", runtime.NumCPU(), "Number of CPUs to use.")
var dburl = flag.String("dburl", "localhost", "The dburl(s). I.e. localhost.")
var verbose = flag.Bool("v", false, "Verbose logging?")
var collection = flag.String("collection", "pages", "The collection to store dumped pages in.")
var dbname = flag.String("dbname", "wp", "The database name to use.")
var limit = flag.Int("limit", 0, "Stop after this many pages (0 for all)")

var wg sync.WaitGroup

// A page is stored once per position in the dump.
var pageIndex = mgo.Index{
	Key:        []string{"index"},
	Unique:     true,
	DropDups:   true,
	Background: true,
}

type page struct {
	Index int    `bson:"index"`
	Start int64  `bson:"start"`
	End   int64  `bson:"end"`
	Text  string `bson:"text,omitempty"`
}

func pageHandler(db *mgo.Database, ch <-chan *page) {
	defer wg.Done()
	for p := range ch {
		storePage(db, p)
	}
}

func storePage(db *mgo.Database, p *page) {
	err := db.C(*collection).Insert(p)
	if err != nil {
		if mgo.IsDup(err) {
			if *verbose {
				log.Printf("Duplicate Key Error inserting page %v", p.Index)
			}
		} else {
			log.Printf("Error inserting page %v: %s", p.Index, err)
		}
	}
}

func processDump(p *wikidump.PageScanner, db *mgo.Database) {
	ch := make(chan *page, 1000)
	for i := 0; i < *proc; i++ {
		wg.Add(1)
		go pageHandler(db, ch)
	}

	pages := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(10000)
	var err error
	for err == nil {
		pg := &page{}
		var b wikidump.Boundary
		pg.Index, b, pg.Text, err = p.NextBoundary()
		if err != nil {
			break
		}
		pg.Start, pg.End = b.Start, b.End
		ch <- pg
		pages++
		if pages%reportfreq == 0 {
			now := time.Now()
			d := now.Sub(prev)
			log.Printf("Processed %s pages total (%.2f/s)\n",
				humanize.Comma(pages), float64(reportfreq)/d.Seconds())
			prev = now
		}
	}
	close(ch)
	wg.Wait()

	if err == io.EOF {
		err = nil
	}
	d := time.Since(start)
	log.Printf("Ended with err after %v:  %v after %s pages (%.2f p/s)",
		d, err, humanize.Comma(pages), float64(pages)/d.Seconds())
}

func main() {
	flag.Parse()
	runtime.GOMAXPROCS(*cpus)
	log.SetOutput(wikidump.NewFlushWriter(os.Stderr))

	if *file == "" {
		log.Fatal("You must supply an uncompressed dump file.")
	}
	session, err := mgo.Dial(*dburl)
	if err != nil {
		log.Fatalf("Error connecting to %v: %v", *dburl, err)
	}
	defer session.Close()

	p, err := wikidump.OpenPageScanner(*file, "", *limit)
	if err != nil {
		log.Fatalf("Error opening dump: %v", err)
	}
	defer p.Close()

	err = session.DB(*dbname).C(*collection).EnsureIndex(pageIndex)
	if err != nil {
		log.Fatal("Error creating page index", err)
	}
	processDump(p, session.DB(*dbname))
}

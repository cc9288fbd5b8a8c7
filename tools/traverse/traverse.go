// Sample program that reads every page of a dump back by offset.
package main

import (
	"encoding/gob"
	"flag"
	"io"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikidump"
)

var numWorkers int
var limit int

var wg, errwg sync.WaitGroup

type job struct {
	Index    int
	Boundary wikidump.Boundary
}

type failure struct {
	Index    int
	Boundary wikidump.Boundary
	Err      string
}

func pageHandler(fn string, ch <-chan job, cherr chan<- failure) {
	defer wg.Done()
	d, err := wikidump.OpenDump(fn)
	if err != nil {
		log.Fatalf("Error opening dump: %v", err)
	}
	defer d.Close()

	for j := range ch {
		if _, err := d.Page(j.Boundary); err != nil {
			log.Printf("Error reading page %v at %v: %v", j.Index, j.Boundary, err)
			cherr <- failure{j.Index, j.Boundary, err.Error()}
		}
	}
}

func errorHandler(ch <-chan failure) {
	defer errwg.Done()
	f, err := os.Create("errors.gob")
	if err != nil {
		log.Fatalf("Error creating error file: %v", err)
	}
	defer f.Close()
	g := gob.NewEncoder(f)

	for p := range ch {
		err = g.Encode(p)
		if err != nil {
			log.Fatalf("Error gobbing failure: %v\n%#v", err, p)
		}
	}
}

// process reads back every page of fn and returns how many it read.
func process(fn string) int64 {
	s, err := wikidump.OpenBoundaryScanner(fn, "", limit)
	if err != nil {
		log.Fatalf("Error opening dump: %v", err)
	}
	defer s.Close()

	ch := make(chan job, 1000)
	cherr := make(chan failure, 10)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go pageHandler(fn, ch, cherr)
	}

	errwg.Add(1)
	go errorHandler(cherr)

	pages := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(1000)
	for err == nil {
		var j job
		j.Index, j.Boundary, err = s.Next()
		if err != nil {
			break
		}
		ch <- j

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
	close(cherr)
	errwg.Wait()
	if err == io.EOF {
		err = nil
	}
	d := time.Since(start)
	log.Printf("Ended with err after %v:  %v after %s pages (%.2f p/s)",
		d, err, humanize.Comma(pages), float64(pages)/d.Seconds())
	return pages
}

func main() {
	var cpus int
	flag.IntVar(&numWorkers, "workers", 8, "Number of page readers")
	flag.IntVar(&cpus, "cpus", runtime.GOMAXPROCS(0), "Number of CPUS to utilize")
	flag.IntVar(&limit, "limit", 0, "Stop after this many pages (0 for all)")
	flag.Parse()

	runtime.GOMAXPROCS(cpus)
	log.SetOutput(wikidump.NewFlushWriter(os.Stderr))

	if flag.NArg() != 1 {
		log.Fatalf("Need an uncompressed dump")
	}
	process(flag.Arg(0))
}

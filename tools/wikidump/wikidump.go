// Search for and download wikipedia dump files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikidump"
)

const helptext = `
Possible commands:
    - download <path> [filename]: fetch a file from the dump server
    - search <string>: list all files of the dump containing the string
    - latest: print the most recent dump version
    - help: this text
`

var (
	base = flag.String("base", envString("WIKIDUMP_BASE_URL", wikidump.BaseURL),
		"Dump server URL")
	wiki = flag.String("wiki", "enwiki", "Wiki whose dumps to look at")
	dump = flag.String("dump", "", "Dump version (default: the latest)")
	dir  = flag.String("dir", envString("WIKIDUMP_DIR", "."),
		"Where status snapshots are kept")
)

func envString(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n  %s [opts] command [params]\n", os.Args[0])
	fmt.Fprint(os.Stderr, helptext)
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

// progressLogger logs download progress at most once a second.
func progressLogger(fname string) wikidump.Progress {
	var last time.Time
	return func(done, total int64) {
		now := time.Now()
		if now.Sub(last) < time.Second && done != total {
			return
		}
		last = now
		if total < 0 {
			log.Printf("%v: %s", fname, humanize.Bytes(uint64(done)))
			return
		}
		log.Printf("%v: %s of %s (%.1f%%)", fname,
			humanize.Bytes(uint64(done)), humanize.Bytes(uint64(total)),
			100*float64(done)/float64(total))
	}
}

func version(c *wikidump.Client) string {
	if *dump != "" {
		return *dump
	}
	v, err := c.Latest()
	if err != nil {
		log.Fatalf("Error finding latest dump: %v", err)
	}
	return v
}

func search(c *wikidump.Client, s string) {
	v := version(c)
	files, err := c.Search(s, v)
	if err != nil {
		log.Fatalf("Error searching dump %v: %v", v, err)
	}
	for _, f := range files {
		fmt.Printf("%-100s %10s\n", f.URL, humanize.Bytes(uint64(f.Size)))
	}
}

func download(c *wikidump.Client, path, fname string) {
	if fname == "" {
		fname = path[strings.LastIndex(path, "/")+1:]
	}
	log.Printf("Requesting %v and saving to %v", path, fname)
	start := time.Now()
	fname, err := c.Download(path, fname, progressLogger(fname))
	if err != nil {
		log.Fatalf("Error downloading %v: %v", path, err)
	}
	log.Printf("Saved %v in %v", fname, time.Since(start))
}

func main() {
	flag.Usage = usage
	flag.Parse()
	log.SetOutput(wikidump.NewFlushWriter(os.Stderr))

	c := wikidump.NewClient()
	c.BaseURL = *base
	c.Wiki = *wiki
	c.StatusDir = *dir

	switch flag.Arg(0) {
	case "search":
		if flag.NArg() != 2 {
			usage()
		}
		search(c, flag.Arg(1))
	case "download":
		if flag.NArg() < 2 {
			usage()
		}
		download(c, flag.Arg(1), flag.Arg(2))
	case "latest":
		fmt.Println("latest:", version(c))
	case "help":
		fmt.Print(helptext)
	default:
		usage()
	}
}

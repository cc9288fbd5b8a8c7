package wikidump

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/httputil"
	"github.com/pkg/errors"
)

// BaseURL is the wikimedia dump server.
const BaseURL = "https://dumps.wikimedia.org"

const fetchChunkSize = 32 * 1024

var hrefRE = regexp.MustCompile(`(?i)<a\s[^>]*href="([^"]*)"`)

// A Progress func receives the bytes written so far and the expected
// total.  total is -1 when the server didn't say how big the file is.
type Progress func(done, total int64)

// A Client finds and fetches dump files.
type Client struct {
	BaseURL string
	// Wiki is the dump directory, e.g. enwiki.
	Wiki string
	// StatusDir holds the status snapshots.
	StatusDir  string
	HTTPClient *http.Client
}

// NewClient gets a client for the english wikipedia dumps.
func NewClient() *Client {
	return &Client{
		BaseURL:    BaseURL,
		Wiki:       "enwiki",
		StatusDir:  ".",
		HTTPClient: http.DefaultClient,
	}
}

// DumpName is the uncompressed name of a dump file.
func DumpName(lang, dump, file string) string {
	return fmt.Sprintf("%swiki-%s-%s.xml", lang, dump, file)
}

// DumpPath is where the compressed dump file lives on the dump server.
func DumpPath(lang, dump, file string) string {
	return fmt.Sprintf("/%swiki/%s/%s.bz2", lang, dump, DumpName(lang, dump, file))
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(c.BaseURL, "/") + path
}

func (c *Client) get(path string, header http.Header) (*http.Response, error) {
	u := c.url(path)
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %v", u)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %v", u)
	}
	if res.StatusCode == http.StatusRequestedRangeNotSatisfiable && req.Header.Get("Range") != "" {
		return res, nil
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		defer res.Body.Close()
		return nil, httputil.HTTPErrorf(res, "error fetching %v: %S\n%B", u)
	}
	return res, nil
}

// Latest finds the most recent dump version.
func (c *Client) Latest() (string, error) {
	res, err := c.get("/"+c.Wiki+"/", nil)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading dump listing")
	}

	var versions []string
	for _, m := range hrefRE.FindAllStringSubmatch(string(body), -1) {
		if m[1] == "../" || m[1] == "latest/" {
			continue
		}
		versions = append(versions, m[1])
	}
	if len(versions) == 0 {
		return "", errors.Errorf("no dumps listed for %v", c.Wiki)
	}
	sort.Strings(versions)
	return strings.TrimSuffix(versions[len(versions)-1], "/"), nil
}

// Status gets the status of a dump, from its snapshot if one has been
// taken, otherwise from the dump server.
//
// Fetched statuses are saved as the snapshot.  Failing to save is
// logged, not returned.
func (c *Client) Status(dump string) (*DumpStatus, error) {
	s, err := LoadStatus(c.StatusDir, dump)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrNoStatus) {
		return nil, err
	}

	res, err := c.get(fmt.Sprintf("/%s/%s/dumpstatus.json", c.Wiki, dump), nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	s = &DumpStatus{}
	if err := json.NewDecoder(res.Body).Decode(s); err != nil {
		return nil, errors.Wrapf(err, "decoding status of %v", dump)
	}
	if err := SaveStatus(c.StatusDir, dump, s); err != nil {
		log.Printf("Error saving status of %v: %v", dump, err)
	}
	return s, nil
}

// Search finds the files of a dump whose names contain s.
func (c *Client) Search(s, dump string) ([]DumpFile, error) {
	st, err := c.Status(dump)
	if err != nil {
		return nil, err
	}
	return st.Search(s), nil
}

// Download fetches path from the dump server into fname.
//
// An existing fname is taken as an interrupted download and resumed
// if the server honors the range request, otherwise it's restarted.
// A local file the same size as the remote one is left as is; one
// larger than it is downloaded again.
// An empty fname means the last element of path.
func (c *Client) Download(path, fname string, progress Progress) (string, error) {
	if fname == "" {
		fname = path[strings.LastIndex(path, "/")+1:]
	}

	var have int64
	if st, err := os.Stat(fname); err == nil {
		have = st.Size()
	}
	header := http.Header{}
	if have > 0 {
		header.Set("Range", fmt.Sprintf("bytes=%d-", have))
	}

	res, err := c.get(path, header)
	if err != nil {
		return "", err
	}

	if res.StatusCode == http.StatusRequestedRangeNotSatisfiable {
		res.Body.Close()
		if contentRangeTotal(res.Header.Get("Content-Range")) == have {
			if progress != nil {
				progress(have, have)
			}
			return fname, nil
		}
		// fname isn't a prefix of the remote file.
		have = 0
		res, err = c.get(path, nil)
		if err != nil {
			return "", err
		}
	}
	defer res.Body.Close()

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if res.StatusCode == http.StatusPartialContent {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	} else {
		have = 0
	}

	total := int64(-1)
	if res.ContentLength >= 0 {
		total = have + res.ContentLength
	} else if cr := res.Header.Get("Content-Range"); cr != "" {
		total = contentRangeTotal(cr)
	}

	f, err := os.OpenFile(fname, flags, 0644)
	if err != nil {
		return "", errors.Wrapf(err, "creating %v", fname)
	}
	defer f.Close()

	w := &progressWriter{w: f, done: have, total: total, progress: progress}
	if _, err := io.CopyBuffer(w, res.Body, make([]byte, fetchChunkSize)); err != nil {
		return "", errors.Wrapf(err, "downloading %v", path)
	}
	return fname, errors.Wrapf(f.Close(), "closing %v", fname)
}

// DownloadDump fetches a compressed dump file into dir.
func (c *Client) DownloadDump(lang, dump, file, dir string, progress Progress) (string, error) {
	fname := filepath.Join(dir, DumpName(lang, dump, file)+".bz2")
	return c.Download(DumpPath(lang, dump, file), fname, progress)
}

// contentRangeTotal gets the complete length from a Content-Range
// header, or -1 if it isn't known.
func contentRangeTotal(cr string) int64 {
	i := strings.LastIndex(cr, "/")
	if i < 0 {
		return -1
	}
	n, err := strconv.ParseInt(cr[i+1:], 10, 64)
	if err != nil {
		return -1
	}
	return n
}

type progressWriter struct {
	w        io.Writer
	done     int64
	total    int64
	progress Progress
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.done += int64(n)
	if p.progress != nil {
		p.progress(p.done, p.total)
	}
	return n, err
}

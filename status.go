package wikidump

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoStatus is returned by LoadStatus when no snapshot has been
// taken for a dump.
var ErrNoStatus = errors.New("no status snapshot")

// A DumpFile is one file produced by a dump job.
type DumpFile struct {
	Name string `json:"-"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
	MD5  string `json:"md5,omitempty"`
	SHA1 string `json:"sha1,omitempty"`
}

// A DumpJob is one step of a dump run, such as articlesdump.
type DumpJob struct {
	Status  string              `json:"status"`
	Updated string              `json:"updated"`
	Files   map[string]DumpFile `json:"files,omitempty"`
}

// DumpStatus is the dumpstatus.json published alongside a dump.
type DumpStatus struct {
	Version string             `json:"version"`
	Jobs    map[string]DumpJob `json:"jobs"`
}

// Search finds every file of every job whose name contains s.
//
// Results are ordered by URL.
func (s *DumpStatus) Search(substr string) []DumpFile {
	rv := []DumpFile{}
	for _, job := range s.Jobs {
		for name, f := range job.Files {
			if strings.Contains(name, substr) {
				f.Name = name
				rv = append(rv, f)
			}
		}
	}
	sort.Slice(rv, func(i, j int) bool { return rv[i].URL < rv[j].URL })
	return rv
}

// StatusPath is where the snapshot for the given dump lives in dir.
func StatusPath(dir, dump string) string {
	return filepath.Join(dir, "status-"+dump+".json")
}

// LoadStatus reads the snapshot of a dump from dir.
//
// A snapshot that hasn't been taken yet is ErrNoStatus.
func LoadStatus(dir, dump string) (*DumpStatus, error) {
	fn := StatusPath(dir, dump)
	data, err := ioutil.ReadFile(fn)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrNoStatus, "%v", fn)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %v", fn)
	}
	rv := &DumpStatus{}
	if err := json.Unmarshal(data, rv); err != nil {
		return nil, errors.Wrapf(err, "decoding %v", fn)
	}
	return rv, nil
}

// SaveStatus writes the snapshot of a dump to dir.
func SaveStatus(dir, dump string, s *DumpStatus) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding status")
	}
	fn := StatusPath(dir, dump)
	return errors.Wrapf(ioutil.WriteFile(fn, data, 0644), "writing %v", fn)
}

package wikidump

import (
	"io/ioutil"
	"testing"

	"github.com/pkg/errors"
)

const testStatus = `{
  "version": "0.8",
  "jobs": {
    "articlesmultistreamdump": {
      "status": "done",
      "updated": "2021-05-03 07:23:40",
      "files": {
        "enwiki-20210501-pages-articles-multistream.xml.bz2": {
          "size": 19020384423,
          "url": "/enwiki/20210501/enwiki-20210501-pages-articles-multistream.xml.bz2",
          "md5": "c0cf7c1ab1c3c54a7bb5e5b3b6de8ba2"
        },
        "enwiki-20210501-pages-articles-multistream-index.txt.bz2": {
          "size": 226383932,
          "url": "/enwiki/20210501/enwiki-20210501-pages-articles-multistream-index.txt.bz2"
        }
      }
    },
    "sitestatstable": {
      "status": "done",
      "updated": "2021-05-01 08:01:12",
      "files": {
        "enwiki-20210501-site_stats.sql.gz": {
          "size": 818,
          "url": "/enwiki/20210501/enwiki-20210501-site_stats.sql.gz"
        }
      }
    },
    "noop": {
      "status": "waiting",
      "updated": ""
    }
  }
}`

func TestStatusSnapshot(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadStatus(dir, "20210501")
	if !errors.Is(err, ErrNoStatus) {
		t.Fatalf("Expected no status, got %v", err)
	}

	s := &DumpStatus{
		Version: "0.8",
		Jobs: map[string]DumpJob{
			"sitestatstable": {
				Status: "done",
				Files: map[string]DumpFile{
					"enwiki-20210501-site_stats.sql.gz": {Size: 818, URL: "/x"},
				},
			},
		},
	}
	if err := SaveStatus(dir, "20210501", s); err != nil {
		t.Fatalf("Error saving status: %v", err)
	}
	got, err := LoadStatus(dir, "20210501")
	if err != nil {
		t.Fatalf("Error loading status: %v", err)
	}
	if got.Jobs["sitestatstable"].Files["enwiki-20210501-site_stats.sql.gz"].Size != 818 {
		t.Fatalf("Expected the saved status, got %+v", got)
	}
}

func TestStatusSearch(t *testing.T) {
	dir := t.TempDir()
	if err := writeStatus(dir, "20210501", testStatus); err != nil {
		t.Fatalf("Error writing status: %v", err)
	}
	s, err := LoadStatus(dir, "20210501")
	if err != nil {
		t.Fatalf("Error loading status: %v", err)
	}

	files := s.Search("multistream")
	if len(files) != 2 {
		t.Fatalf("Expected 2 multistream files, got %v", files)
	}
	if files[0].Name != "enwiki-20210501-pages-articles-multistream-index.txt.bz2" {
		t.Errorf("Expected the index first, got %v", files[0].Name)
	}
	if files[1].Size != 19020384423 {
		t.Errorf("Expected size 19020384423, got %v", files[1].Size)
	}
	if got := s.Search("nothing like this"); len(got) != 0 {
		t.Errorf("Expected no matches, got %v", got)
	}
}

func writeStatus(dir, dump, content string) error {
	return ioutil.WriteFile(StatusPath(dir, dump), []byte(content), 0644)
}

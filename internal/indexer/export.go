package indexer

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/blacktop/ipa-archive/internal/model"
	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/pkg/errors"
)

// Separator is the base url written between the database urls and the
// sub directory urls created on export.
const Separator = "---"

// Export is a catalog ready to be written
type Export struct {
	Records  []catalog.Record
	BaseURLs catalog.BaseURLs
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func exportTitle(ipa *model.Ipa) string {
	if ipa.Title != nil {
		return strings.TrimSpace(*ipa.Title)
	}
	name := ipa.PathName
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}

// BuildExport converts the done ipas into catalog records. Records are
// ordered by title, minOS, platform and version; ipas stored in a sub
// directory of their base url are moved to a new base url for that directory.
func BuildExport(urls []model.BaseURL, ipas []model.Ipa) *Export {
	exp := &Export{BaseURLs: make(catalog.BaseURLs, len(urls)+1)}
	maxID := 0
	for _, u := range urls {
		exp.BaseURLs[int(u.ID)] = u.URL
		maxID = max(maxID, int(u.ID))
	}
	maxID++
	exp.BaseURLs[maxID] = Separator

	records := make([]catalog.Record, 0, len(ipas))
	for i := range ipas {
		ipa := &ipas[i]
		records = append(records, catalog.Record{
			Key:       int(ipa.ID),
			Platforms: catalog.PlatformMask(deref(ipa.Platform)),
			MinOS:     catalog.Version(deref(ipa.MinOS)),
			Title:     exportTitle(ipa),
			BundleID:  deref(ipa.BundleID),
			Version:   deref(ipa.Version),
			BaseURL:   int(ipa.BaseURLID),
			Path:      ipa.PathName,
			Size:      ipa.FileSize,
		})
	}
	slices.SortStableFunc(records, func(a, b catalog.Record) int {
		if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
			return c
		}
		if a.MinOS != b.MinOS {
			return int(a.MinOS) - int(b.MinOS)
		}
		if a.Platforms != b.Platforms {
			return int(a.Platforms) - int(b.Platforms)
		}
		if c := strings.Compare(a.Version, b.Version); c != 0 {
			return c
		}
		return a.Key - b.Key
	})

	subdirs := make(map[string]int)
	for i := range records {
		rec := &records[i]
		dir, file, ok := strings.Cut(rec.Path, "/")
		if !ok {
			continue
		}
		newURL := exp.BaseURLs[rec.BaseURL] + "/" + dir
		id, seen := subdirs[newURL]
		if !seen {
			maxID++
			id = maxID
			subdirs[newURL] = id
			exp.BaseURLs[id] = newURL
		}
		rec.BaseURL = id
		rec.Path = file
	}
	exp.Records = records
	return exp
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return f.Close()
}

// Write saves the export as ipa.json and urls.json in dir.
func (e *Export) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, "ipa.json"), func(f *os.File) error {
		return catalog.EncodeRecords(f, e.Records)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, "urls.json"), func(f *os.File) error {
		return catalog.EncodeBaseURLs(f, e.BaseURLs)
	})
}

// Export builds the catalog from the done ipas and writes it to dir.
func (ix *Indexer) Export(dir string) (*Export, error) {
	urls, err := ix.DB.BaseURLs()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get base urls")
	}
	ipas, err := ix.DB.Done()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get done ipas")
	}
	exp := BuildExport(urls, ipas)
	if err := exp.Write(dir); err != nil {
		return nil, err
	}
	return exp, nil
}

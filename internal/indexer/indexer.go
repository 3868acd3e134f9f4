// Package indexer fills the cache database from archive.org listings, extracts
// metadata and icons from remote ipas and exports the catalog files.
package indexer

import (
	"archive/zip"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/internal/db"
	"github.com/blacktop/ipa-archive/internal/download"
	"github.com/blacktop/ipa-archive/internal/model"
	"github.com/blacktop/ipa-archive/internal/utils"
	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWorkers is the number of ipas processed concurrently
	DefaultWorkers = 8
	// DefaultBatchSize is the number of pending ipas fetched per round
	DefaultBatchSize = 100

	openAttempts = 3
)

// Indexer processes the ipas stored in the cache database
type Indexer struct {
	DB        db.Database
	DataDir   string
	Workers   int
	BatchSize int
	// OpenZip opens a remote ipa
	OpenZip func(ctx context.Context, url string) (*zip.Reader, error)
}

// New creates an indexer that fetches ipas with client.
func New(database db.Database, dataDir string, client *http.Client) *Indexer {
	return &Indexer{
		DB:        database,
		DataDir:   dataDir,
		Workers:   DefaultWorkers,
		BatchSize: DefaultBatchSize,
		OpenZip: func(ctx context.Context, url string) (*zip.Reader, error) {
			var zr *zip.Reader
			err := utils.Retry(openAttempts, time.Second, func() (err error) {
				if err := ctx.Err(); err != nil {
					return utils.Stop(err)
				}
				zr, err = download.NewRemoteZipReader(url, client)
				return err
			})
			return zr, err
		},
	}
}

// Path returns the cache file of an ipa with the given extension.
func (ix *Indexer) Path(id uint, ext string) string {
	return filepath.Join(ix.DataDir, fmt.Sprint(id/catalog.ImageBucketSize), fmt.Sprintf("%d%s", id, ext))
}

// DownloadURL is the escaped url of a cached ipa.
func DownloadURL(p *model.PendingIpa) string {
	return catalog.EscapeURL(p.URL + "/" + p.PathName)
}

// URL returns the download url of the ipa with key id.
func (ix *Indexer) URL(id uint) (string, error) {
	p, err := ix.DB.Get(id)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get ipa %d", id)
	}
	return DownloadURL(p), nil
}

// Add lists an archive.org item and queues all of its ipas.
func (ix *Indexer) Add(ctx context.Context, archive *download.Archive, rawURL string) (added int64, total int, err error) {
	id, err := download.ArchiveID(rawURL)
	if err != nil {
		return 0, 0, err
	}
	base, err := ix.DB.InsertBaseURL(archive.DownloadURL(id))
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to insert base url")
	}
	log.WithFields(log.Fields{"id": base, "archive": id}).Info("Loading archive listing")
	files, err := archive.IPAs(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	ipas := make([]model.Ipa, 0, len(files))
	for _, f := range files {
		ipas = append(ipas, model.Ipa{BaseURLID: base, PathName: f.Name, FileSize: f.SizeBytes()})
	}
	added, err = ix.DB.InsertIpas(ipas)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to insert ipas")
	}
	return added, len(ipas), nil
}

// Load extracts the Info.plist and icon of an ipa into the data dir. Ipas
// that already have a cached plist are skipped unless overwrite is set.
func (ix *Indexer) Load(ctx context.Context, id uint, url string, overwrite, imageOnly bool) (bool, error) {
	plistPath := ix.Path(id, ".plist")
	if err := os.MkdirAll(filepath.Dir(plistPath), 0o750); err != nil {
		return false, errors.Wrap(err, "failed to create cache dir")
	}
	if !overwrite && fileExists(plistPath) {
		return true, nil
	}
	zr, err := ix.OpenZip(ctx, url)
	if err != nil {
		return false, err
	}
	return extractIpa(zr, plistPath, ix.Path(id, ".png"), imageOnly)
}

// finish parses the cached plist of id and stores its metadata.
func (ix *Indexer) finish(id uint) error {
	data, err := os.ReadFile(ix.Path(id, ".plist"))
	if err != nil {
		return errors.Wrapf(err, "failed to read plist of %d", id)
	}
	info, err := ParseInfo(data)
	if err != nil {
		log.WithError(err).Errorf("[%d] PLIST", id)
		return ix.DB.SetState(id, model.Failed)
	}
	return ix.DB.SetDone(id, info.Metadata())
}

func humanURL(url string) string {
	if _, after, ok := strings.Cut(url, "archive.org/download/"); ok {
		return after
	}
	return url
}

// Run processes pending ipas in batches until the queue is empty.
func (ix *Indexer) Run(ctx context.Context) (processed int, err error) {
	workers := max(ix.Workers, 1)
	batchSize := max(ix.BatchSize, 1)
	for {
		pending, err := ix.DB.Count(model.Pending)
		if err != nil {
			return processed, errors.Wrap(err, "failed to count pending ipas")
		}
		batch, err := ix.DB.Pending(model.Pending, batchSize)
		if err != nil {
			return processed, errors.Wrap(err, "failed to get pending ipas")
		}
		if len(batch) == 0 {
			log.Info("Queue empty")
			break
		}

		results := make([]bool, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, p := range batch {
			g.Go(func() error {
				url := DownloadURL(&p)
				utils.Indent(log.Info, 2)(fmt.Sprintf("[%d|%d queued]: load[%d] %s", processed+i+1, int(pending)-i-1, p.ID, humanURL(url)))
				ok, err := ix.Load(gctx, p.ID, url, false, false)
				if err != nil {
					log.WithError(err).Errorf("[%d]", p.ID)
				}
				if ok {
					ix.thumbnail(p.ID)
				}
				results[i] = ok
				return nil
			})
		}
		g.Wait()
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		for i, p := range batch {
			if results[i] {
				err = ix.finish(p.ID)
			} else {
				err = ix.DB.SetState(p.ID, model.Failed)
			}
			if err != nil {
				return processed, err
			}
		}
		processed += len(batch)
	}

	failed, err := ix.DB.Count(model.Failed)
	if err != nil {
		return processed, err
	}
	if failed > 0 {
		log.WithField("count", failed).Warn("URLs with Error")
		errs, err := ix.DB.Pending(model.Failed, 10)
		if err != nil {
			return processed, err
		}
		for _, p := range errs {
			utils.Indent(log.Warn, 2)(fmt.Sprintf("[%d] %s", p.ID, DownloadURL(&p)))
		}
	}
	return processed, nil
}

// Reprocess reloads the given ipas, overwriting cached files.
func (ix *Indexer) Reprocess(ctx context.Context, ids []uint) error {
	for _, id := range ids {
		url, err := ix.URL(id)
		if err != nil {
			return err
		}
		log.WithField("url", url).Infof("%d: process", id)
		ok, err := ix.Load(ctx, id, url, true, false)
		if err != nil {
			log.WithError(err).Errorf("[%d]", id)
		}
		if ok {
			ix.thumbnail(id)
			err = ix.finish(id)
		} else {
			err = ix.DB.SetState(id, model.Failed)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Images reloads only the icons of the given ipas.
func (ix *Indexer) Images(ctx context.Context, ids []uint) error {
	for _, id := range ids {
		url, err := ix.URL(id)
		if err != nil {
			return err
		}
		log.WithField("url", url).Infof("%d: load image", id)
		if _, err := ix.Load(ctx, id, url, true, true); err != nil {
			return err
		}
		if err := ix.Thumbnail(id); err != nil {
			return err
		}
	}
	return nil
}

// thumbnail converts the icon of id if one was extracted; failures are logged.
func (ix *Indexer) thumbnail(id uint) {
	if !fileExists(ix.Path(id, ".png")) {
		return
	}
	if err := ix.Thumbnail(id); err != nil {
		log.WithError(err).Warnf("[%d] IMG", id)
	}
}

// SetPermanentError marks an ipa as permanently broken and removes its cached files.
func (ix *Indexer) SetPermanentError(id uint) error {
	if err := ix.DB.SetPermanentError(id); err != nil {
		return errors.Wrapf(err, "failed to set error on %d", id)
	}
	for _, ext := range []string{".plist", ".png", ".jpg"} {
		if err := os.Remove(ix.Path(id, ext)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

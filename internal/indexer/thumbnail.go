package indexer

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ThumbnailSize is the edge length of the catalog artwork.
const ThumbnailSize = 128

// Thumbnail converts the extracted icon of id into the jpg artwork served with
// the catalog. Transparent pixels become white. Apple optimized (CgBI) pngs do
// not decode and are reported as errors.
func (ix *Indexer) Thumbnail(id uint) error {
	src, err := imaging.Open(ix.Path(id, ".png"))
	if err != nil {
		return errors.Wrapf(err, "failed to decode icon of %d", id)
	}
	src = imaging.Fit(src, ThumbnailSize, ThumbnailSize, imaging.Lanczos)
	b := src.Bounds()
	dst := imaging.New(b.Dx(), b.Dy(), color.White)
	dst = imaging.Overlay(dst, src, image.Pt(0, 0), 1.0)
	if err := imaging.Save(dst, ix.Path(id, ".jpg"), imaging.JPEGQuality(85)); err != nil {
		return errors.Wrapf(err, "failed to write artwork of %d", id)
	}
	return nil
}

package catalog

import "fmt"

// ImageBucketSize is the number of records sharing one image directory.
const ImageBucketSize = 1000

// Entry is the derived view of a record with its urls resolved.
type Entry struct {
	Record
	// Index is the position of the record in the catalog.
	Index int
	// DownloadURL is the unescaped url of the ipa.
	DownloadURL string
	// ImagePath is the artwork path relative to the site root.
	ImagePath string
}

// ImagePath returns the sharded artwork path for a record key, i.e. 7 -> data/0/7.jpg
func ImagePath(key int) string {
	return fmt.Sprintf("data/%d/%d.jpg", key/ImageBucketSize, key)
}

func newEntry(idx int, r Record, base string) *Entry {
	return &Entry{
		Record:      r,
		Index:       idx,
		DownloadURL: base + "/" + r.Path,
		ImagePath:   ImagePath(r.Key),
	}
}

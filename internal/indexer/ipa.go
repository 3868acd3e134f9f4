package indexer

import (
	"archive/zip"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

var infoPlistRe = regexp.MustCompile(`^Payload/([^/]+)/Info\.plist$`)

// ErrNoPayload is logged for archives without a Payload/ root folder.
var ErrNoPayload = errors.New(`ipa has no "Payload/" root folder`)

func zipName(f *zip.File) string {
	return strings.TrimLeft(f.Name, "/")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// extractFile writes a zip entry to dest and returns the number of bytes written.
func extractFile(f *zip.File, dest string) (int64, error) {
	src, err := f.Open()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to open %s", f.Name)
	}
	defer src.Close()
	out, err := os.Create(dest)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to create %s", dest)
	}
	defer out.Close()
	n, err := io.Copy(out, src)
	if err != nil {
		return n, errors.Wrapf(err, "failed to extract %s", f.Name)
	}
	return n, nil
}

// extractIpa writes the app's Info.plist to plistPath and its icon to imgPath.
// It reports whether an Info.plist is available afterwards.
func extractIpa(zr *zip.Reader, plistPath, imgPath string, imageOnly bool) (bool, error) {
	var (
		appName    string
		artwork    bool
		hasPayload bool
	)
	for _, f := range zr.File {
		name := zipName(f)
		hasPayload = hasPayload || strings.HasPrefix(name, "Payload/")
		if name == "iTunesArtwork" {
			n, err := extractFile(f, imgPath)
			if err != nil {
				return false, err
			}
			artwork = n > 0
		} else if m := infoPlistRe.FindStringSubmatch(name); m != nil {
			appName = m[1]
			if !imageOnly {
				if _, err := extractFile(f, plistPath); err != nil {
					return false, err
				}
			}
		}
	}
	if !hasPayload {
		log.WithField("plist", plistPath).Warn(ErrNoPayload.Error())
	}

	if !artwork && appName != "" && fileExists(plistPath) {
		data, err := os.ReadFile(plistPath)
		if err != nil {
			return false, err
		}
		if info, err := ParseInfo(data); err == nil {
			if icon := findIcon(zr.File, appName, info.IconNames()); icon != nil {
				if _, err := extractFile(icon, imgPath); err != nil {
					return false, err
				}
			}
		}
	}
	return fileExists(plistPath), nil
}

// findIcon returns the best resolution, non-empty image matching one of names.
func findIcon(files []*zip.File, appName string, names []string) *zip.File {
	prefix := "Payload/" + appName + "/"
	for _, iconName := range append(names, "Icon", "icon") {
		var matching []string
		for _, f := range files {
			if strings.HasPrefix(zipName(f), prefix+iconName) {
				parts := strings.SplitN(f.Name, "/", 3)
				matching = append(matching, parts[len(parts)-1])
			}
		}
		for _, best := range SortByResolution(matching) {
			for _, f := range files {
				if zipName(f) == prefix+best && f.UncompressedSize64 > 0 {
					return f
				}
			}
		}
	}
	return nil
}

// Package imagedir renders pre-rasterised documents: a directory of image
// files (one page per image, in lexical order) or a single image file.
package imagedir

import (
	"context"
	"crypto/md5" //nolint:gosec // identity key, not a security boundary
	"fmt"
	"image"
	_ "image/jpeg" // page decoders
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driven"
)

// Supported image extensions, lowercase with the leading dot.
var supportedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Ensure Renderer implements the interface.
var _ driven.Renderer = (*Renderer)(nil)

// Renderer opens image files and image directories as documents.
type Renderer struct{}

// NewRenderer creates an image renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Supports reports whether the path is an image file or a directory
// containing at least one image file.
func (r *Renderer) Supports(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return supportedExts[strings.ToLower(filepath.Ext(path))]
	}
	pages, err := listPages(path)
	return err == nil && len(pages) > 0
}

// Open prepares the image document at path.
func (r *Renderer) Open(_ context.Context, path string) (driven.RenderedDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	var pages []string
	if info.IsDir() {
		pages, err = listPages(path)
		if err != nil {
			return nil, err
		}
		if len(pages) == 0 {
			return nil, fmt.Errorf("%w: no image files in %s", domain.ErrUnsupportedDocument, path)
		}
	} else {
		if !supportedExts[strings.ToLower(filepath.Ext(path))] {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedDocument, path)
		}
		pages = []string{path}
	}

	identity, err := documentIdentity(pages)
	if err != nil {
		return nil, err
	}
	return &document{pages: pages, identity: identity}, nil
}

// listPages returns the image files of a directory in lexical order.
func listPages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var pages []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supportedExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			pages = append(pages, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(pages)
	return pages, nil
}

// documentIdentity hashes the page file attributes into one identity, so
// adding, removing or touching any page invalidates cached fingerprints.
func documentIdentity(pages []string) (string, error) {
	h := md5.New() //nolint:gosec // identity key, not a security boundary
	for _, page := range pages {
		info, err := os.Stat(page)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", page, err)
		}
		fmt.Fprintf(h, "%s|%d|%d\n", page, info.Size(), info.ModTime().UnixNano())
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// document implements driven.RenderedDocument over a list of image files.
type document struct {
	pages    []string
	identity string
}

// Identity returns the combined content identity of the page files.
func (d *document) Identity() string {
	return d.identity
}

// PageCount returns the number of page images.
func (d *document) PageCount() int {
	return len(d.pages)
}

// Page decodes the image at the given zero-based index.
func (d *document) Page(ctx context.Context, index int) (*domain.PageImage, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("%w: page %d of %d", domain.ErrInvalidInput, index, len(d.pages))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(d.pages[index])
	if err != nil {
		return nil, fmt.Errorf("opening page %d: %w", index, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrInvalidImage, d.pages[index], err)
	}
	return domain.NewPageImage(fmt.Sprintf("%s:page:%d", d.identity, index), index, img), nil
}

// Close releases resources (no-op; pages are decoded on demand).
func (d *document) Close() error {
	return nil
}

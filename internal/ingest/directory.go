// Package ingest loads OCR text dumps from disk. The OCR collaborator
// writes one .txt per scanned document, optionally with a .conf sidecar
// holding the page confidence.
package ingest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mfuentesc/boletas-engine/constants"
	"github.com/mfuentesc/boletas-engine/internal/entity"
)

// loadConcurrency bounds parallel file reads during a scan.
const loadConcurrency = 8

// ScanDirectory walks root for OCR text dumps, skipping hidden files, and
// returns documents in stable path order. A file that cannot be read
// becomes a document-level failure, not an error: the batch must keep
// going.
func ScanDirectory(root string) ([]entity.SourceDocument, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if constants.NormalizeExt(filepath.Ext(name)) != constants.TextExtension {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	docs := make([]entity.SourceDocument, len(paths))
	var g errgroup.Group
	g.SetLimit(loadConcurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			docs[i] = loadDocument(path)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func loadDocument(path string) entity.SourceDocument {
	doc := entity.SourceDocument{Path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		doc.Err = "read source text: " + err.Error()
		return doc
	}
	doc.Text = string(raw)
	doc.PageConfidence = readSidecarConfidence(path)
	return doc
}

// readSidecarConfidence reads the optional "<file>.conf" sidecar; absence
// or garbage yields 0.
func readSidecarConfidence(path string) float64 {
	raw, err := os.ReadFile(strings.TrimSuffix(path, filepath.Ext(path)) + constants.ConfidenceSidecarExt)
	if err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil || v < 0 || v > 1 {
		return 0
	}
	return v
}

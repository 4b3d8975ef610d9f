// Package assets inspects the prebuilt static asset directory that a site deployment uploads.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// IndexDocument is the object CloudFront serves for the root path.
const IndexDocument = "index.html"

var (
	ErrNotFound     = errors.New("assets: path does not exist")
	ErrNotDirectory = errors.New("assets: path is not a directory")
	ErrMissingIndex = errors.New("assets: index.html not found")
)

// Manifest summarizes an asset directory.
//
// Fingerprint covers relative paths and contents only, so it is stable across
// checkouts and machines.
type Manifest struct {
	Root        string `json:"root" yaml:"root"`
	Files       int    `json:"files" yaml:"files"`
	Bytes       int64  `json:"bytes" yaml:"bytes"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

// Check verifies that root is a directory containing an index document.
func Check(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	index, err := os.Stat(filepath.Join(root, IndexDocument))
	if err != nil || index.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingIndex, root)
	}
	return nil
}

// Inspect checks root and walks it to build a Manifest.
func Inspect(root string) (Manifest, error) {
	if err := Check(root); err != nil {
		return Manifest{}, err
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if walkErr != nil {
		return Manifest{}, walkErr
	}
	sort.Strings(files)

	hash := sha256.New()
	manifest := Manifest{Root: root, Files: len(files)}
	for _, rel := range files {
		n, err := hashFile(hash, root, rel)
		if err != nil {
			return Manifest{}, fmt.Errorf("hash %s: %w", rel, err)
		}
		manifest.Bytes += n
	}
	manifest.Fingerprint = hex.EncodeToString(hash.Sum(nil))
	return manifest, nil
}

func hashFile(w io.Writer, root, rel string) (int64, error) {
	//nolint:gosec // Path is discovered by walking the configured asset directory.
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	// Path and content are both length-prefixed so no file body can pose as a
	// following entry.
	if _, err := fmt.Fprintf(w, "%d:%s\x00%d:", len(rel), rel, info.Size()); err != nil {
		return 0, err
	}
	return io.CopyN(w, f, info.Size())
}

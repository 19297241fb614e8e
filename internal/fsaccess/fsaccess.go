// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fsaccess

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tflens/tflens/internal/config"
	"github.com/tflens/tflens/internal/log"
)

// FS is the file-access capability handed to the resolution engine: read by
// identity, existence tests, and bounded upward search. Root is the declared
// workspace root; FindUpward never climbs past it.
type FS struct {
	Root    string
	MaxHops int
}

// New returns an FS rooted at the given workspace directory, with the upward
// hop bound taken from configuration.
func New(root string) *FS {
	return &FS{Root: filepath.Clean(root), MaxHops: config.MaxUpwardHops()}
}

// ResolveRoot normalizes a workspace root spec to an absolute directory. It
// returns an error if the fs entry does not exist, is empty or is not a
// directory.
func ResolveRoot(rootDir string) (string, error) {
	if rootDir == "" {
		return "", os.ErrInvalid
	}

	dir := rootDir
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cwd, dir)
	}

	if r, err := os.Stat(dir); err != nil {
		return "", err
	} else if !r.IsDir() {
		return "", os.ErrInvalid
	}

	return filepath.Clean(dir), nil
}

// ToPath strips a file:// scheme if present, yielding a filesystem path.
func ToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// ToURI prepends the file:// scheme to a filesystem path.
func ToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}

// ReadFile reads a file by URI or path. A missing or unreadable file is
// reported as not-found, never as a fault.
func (f *FS) ReadFile(uri string) (string, bool) {
	b, err := os.ReadFile(ToPath(uri))
	if err != nil {
		log.Tracef("read miss: uri=%s, err=%v", uri, err)
		return "", false
	}
	return string(b), true
}

// Exists reports whether the URI names an existing file.
func (f *FS) Exists(uri string) bool {
	info, err := os.Stat(ToPath(uri))
	return err == nil && !info.IsDir()
}

// FindUpward searches ancestor directories of startPath for fileName. The
// search is bounded by MaxHops and by the workspace root; the root directory
// itself is still searched. Returns the found file as a URI.
func (f *FS) FindUpward(startPath, fileName string) (string, bool) {
	dir := ToPath(startPath)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	hops := f.MaxHops
	if hops <= 0 {
		hops = config.DefaultMaxUpwardHops
	}

	for hop := 0; hop < hops; hop++ {
		candidate := filepath.Join(dir, fileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			log.Debugf("found upward: file=%s, hops=%d", candidate, hop)
			return ToURI(candidate), true
		}

		if f.Root != "" && dir == f.Root {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}

// FindUpwardExcluding behaves like FindUpward but starts at the parent of
// startPath's directory, the shape of terragrunt's find_in_parent_folders:
// the current config never finds itself.
func (f *FS) FindUpwardExcluding(startPath, fileName string) (string, bool) {
	dir := ToPath(startPath)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	if f.Root != "" && dir == f.Root {
		return "", false
	}
	return f.FindUpward(filepath.Dir(dir), fileName)
}

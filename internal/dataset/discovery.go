package dataset

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
)

// ImageExtensions are the media suffixes picked up by DefaultFilters.
var ImageExtensions = []string{
	".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff", ".webp",
	".JPG", ".JPEG", ".PNG", ".BMP", ".TIF", ".TIFF", ".WEBP",
}

// Filters selects entries while walking a directory. Names starting with an
// ExcludePrefix are skipped (directories are pruned). When IncludePostfix is
// non-empty only files ending with one of its suffixes are kept. Matching is
// case-sensitive.
type Filters struct {
	ExcludePrefix  []string
	IncludePostfix []string
}

// DefaultFilters skips dotfiles and keeps images only.
func DefaultFilters() Filters {
	return Filters{
		ExcludePrefix:  []string{"."},
		IncludePostfix: slices.Clone(ImageExtensions),
	}
}

// AllFilesFilters skips dotfiles and keeps everything else.
func AllFilesFilters() Filters {
	return Filters{ExcludePrefix: []string{"."}}
}

func (f Filters) excluded(name string) bool {
	for _, p := range f.ExcludePrefix {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func (f Filters) included(name string) bool {
	if len(f.IncludePostfix) == 0 {
		return true
	}
	for _, s := range f.IncludePostfix {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// ListDir walks root recursively and yields slash-separated paths relative to
// root, in lexical order. Walking stops as soon as the consumer stops.
func ListDir(root string, filters Filters) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				yield("", apperr.Wrap(err, apperr.CodeIO, "list "+path))
				return filepath.SkipAll
			}
			if path == root {
				return nil
			}
			if filters.excluded(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !filters.included(d.Name()) {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				yield("", apperr.Wrap(err, apperr.CodeIO, "list "+path))
				return filepath.SkipAll
			}
			if !yield(filepath.ToSlash(rel), nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// CandidatePool holds discovered media paths that have not been claimed by
// a label file yet.
type CandidatePool struct {
	paths []string
}

// NewCandidatePool builds a pool from paths.
func NewCandidatePool(paths []string) *CandidatePool {
	p := slices.Clone(paths)
	slices.Sort(p)
	return &CandidatePool{paths: p}
}

// CollectCandidates drains a listing into a pool.
func CollectCandidates(seq iter.Seq2[string, error]) (*CandidatePool, error) {
	var paths []string
	for p, err := range seq {
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return NewCandidatePool(paths), nil
}

// MatchBySuffix claims the single candidate whose path ends with fileName.
// The match is a plain string suffix test. Zero or several matches fail with
// an import_match error and leave the pool untouched.
func (p *CandidatePool) MatchBySuffix(fileName string) (string, error) {
	if fileName == "" {
		return "", apperr.New(apperr.CodeImportMatch, "empty file name cannot be matched")
	}
	idx := -1
	var matches []string
	for i, c := range p.paths {
		if strings.HasSuffix(c, fileName) {
			idx = i
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		p.paths = slices.Delete(p.paths, idx, idx+1)
		return matches[0], nil
	case 0:
		return "", apperr.Newf(apperr.CodeImportMatch, "no image with path ending with %s found", fileName).
			WithMeta("file_name", fileName)
	default:
		return "", apperr.Newf(apperr.CodeImportMatch, "multiple images with path ending with %s found", fileName).
			WithMeta("file_name", fileName).
			WithMeta("matches", matches)
	}
}

// Remaining returns the unclaimed paths in sorted order.
func (p *CandidatePool) Remaining() []string {
	return slices.Clone(p.paths)
}

// Len is the number of unclaimed paths.
func (p *CandidatePool) Len() int {
	return len(p.paths)
}

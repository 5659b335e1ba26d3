package builder

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shibukawa/gpcforge/preprocessor"
)

// DefaultCacheSize is the number of file versions kept by a CachedSource
const DefaultCacheSize = 128

type fileKey struct {
	path    string
	modTime int64
	size    int64
}

// CachedSource is a preprocessor.FileSource that keeps recently read files in
// an LRU cache. Entries are keyed by path, modification time and size, so an
// edited file is read again. It is safe for concurrent use.
type CachedSource struct {
	preprocessor.OSFileSource

	cache *lru.Cache[fileKey, []byte]
}

var _ preprocessor.FileSource = (*CachedSource)(nil)

// NewCachedSource creates a CachedSource holding up to size file versions
func NewCachedSource(size int) (*CachedSource, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New[fileKey, []byte](size)
	if err != nil {
		return nil, err
	}

	return &CachedSource{cache: cache}, nil
}

// ReadFile implements preprocessor.FileSource
func (s *CachedSource) ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	key := fileKey{path: path, modTime: info.ModTime().UnixNano(), size: info.Size()}
	if data, ok := s.cache.Get(key); ok {
		return data, nil
	}

	data, err := s.OSFileSource.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, data)

	return data, nil
}

// Len returns the number of cached file versions
func (s *CachedSource) Len() int {
	return s.cache.Len()
}

// overlaySource serves one virtual file from memory and everything else from base
type overlaySource struct {
	base    preprocessor.FileSource
	path    string
	content []byte
}

func newOverlaySource(base preprocessor.FileSource, path string, content []byte) (*overlaySource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return &overlaySource{base: base, path: abs, content: content}, nil
}

func (o *overlaySource) Canonical(path string) (string, error) {
	if abs, err := filepath.Abs(path); err == nil && abs == o.path {
		return o.path, nil
	}

	return o.base.Canonical(path)
}

func (o *overlaySource) ReadFile(path string) ([]byte, error) {
	if path == o.path {
		return o.content, nil
	}

	return o.base.ReadFile(path)
}

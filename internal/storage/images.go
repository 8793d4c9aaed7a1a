package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidImageType is returned for filenames outside the allow-list.
var ErrInvalidImageType = errors.New("invalid image file type")

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

type Image struct {
	Name string
	URL  string
}

type File struct {
	Name        string
	Data        []byte
	ContentType string
}

// Images stores uploads under one directory per catalog kind and builds
// their public URLs as <baseURL>uploads/<kind>/<name>.
type Images struct {
	disk    Disk
	baseURL string
	kinds   map[string]struct{}

	// reserved holds "<kind>/<name>" keys between choosing a free name and
	// finishing the write, so two concurrent uploads of the same file never
	// pick the same name.
	mu       sync.Mutex
	reserved map[string]struct{}
}

func NewImages(disk Disk, baseURL string, kinds []string) *Images {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	known := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		known[k] = struct{}{}
	}
	return &Images{
		disk:     disk,
		baseURL:  baseURL,
		kinds:    known,
		reserved: make(map[string]struct{}),
	}
}

// Accepts reports whether filename has an allowed image extension.
func (s *Images) Accepts(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filename[i+1:])]
	return ok
}

func (s *Images) URL(kind, name string) string {
	return s.baseURL + "uploads/" + kind + "/" + name
}

// Save writes body under kind using the sanitized filename. When that name
// is taken, a numeric suffix is added before the extension.
func (s *Images) Save(ctx context.Context, kind, filename string, body io.Reader) (*Image, error) {
	if !s.knows(kind) {
		return nil, fmt.Errorf("storage: unknown image kind %q", kind)
	}
	if !s.Accepts(filename) {
		return nil, ErrInvalidImageType
	}
	name := Sanitize(filename)
	if !s.Accepts(name) {
		return nil, ErrInvalidImageType
	}

	name, err := s.reserve(ctx, kind, name)
	if err != nil {
		return nil, err
	}
	defer s.release(kind, name)

	if err := s.disk.Put(ctx, kind+"/"+name, body); err != nil {
		return nil, err
	}
	return &Image{Name: name, URL: s.URL(kind, name)}, nil
}

// Open returns ErrNotFound for unknown kinds and missing files alike.
func (s *Images) Open(ctx context.Context, kind, name string) (*File, error) {
	if !s.knows(kind) || name != Sanitize(name) || name == "" {
		return nil, ErrNotFound
	}
	data, err := s.disk.Get(ctx, kind+"/"+name)
	if err != nil {
		return nil, err
	}
	return &File{Name: name, Data: data, ContentType: contentType(data)}, nil
}

func (s *Images) Remove(ctx context.Context, kind, name string) error {
	if !s.knows(kind) || name == "" {
		return nil
	}
	return s.disk.Delete(ctx, kind+"/"+name)
}

// NameFromURL extracts the stored file name from a URL built by URL for the
// same kind. ok is false for foreign URLs.
func (s *Images) NameFromURL(kind, url string) (string, bool) {
	prefix := s.URL(kind, "")
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	return name, name != "" && !strings.Contains(name, "/")
}

func (s *Images) knows(kind string) bool {
	_, ok := s.kinds[kind]
	return ok
}

func (s *Images) reserve(ctx context.Context, kind, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for n := 1; ; n++ {
		key := kind + "/" + candidate
		if _, taken := s.reserved[key]; !taken {
			exists, err := s.disk.Exists(ctx, key)
			if err != nil {
				return "", err
			}
			if !exists {
				s.reserved[key] = struct{}{}
				return candidate, nil
			}
		}
		candidate = stem + "-" + strconv.Itoa(n) + ext
	}
}

func (s *Images) release(kind, name string) {
	s.mu.Lock()
	delete(s.reserved, kind+"/"+name)
	s.mu.Unlock()
}

// Sanitize reduces an uploaded filename to a safe flat name: directory parts
// are dropped, whitespace becomes "_", and anything outside [A-Za-z0-9_.-]
// is removed. Dots and underscores are trimmed from the ends of the stem; an
// empty stem becomes "image" so the extension survives.
func Sanitize(filename string) string {
	filename = norm.NFKD.String(filename)
	filename = strings.NewReplacer("/", " ", "\\", " ").Replace(filename)
	filename = strings.Join(strings.Fields(filename), "_")

	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	name := b.String()
	ext := path.Ext(name)
	if ext == "." {
		return strings.Trim(name, "._")
	}
	stem := strings.Trim(strings.TrimSuffix(name, ext), "._")
	if ext == "" {
		return stem
	}
	if stem == "" {
		stem = "image"
	}
	return stem + ext
}

func contentType(data []byte) string {
	return mimetype.Detect(data).String()
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestImages(t *testing.T) (*Images, *LocalDisk) {
	t.Helper()
	disk, err := NewLocalDisk(t.TempDir())
	require.NoError(t, err)
	return NewImages(disk, "http://shop.test", []string{"tshirts", "combos_details"}), disk
}

func TestAccepts(t *testing.T) {
	s, _ := newTestImages(t)
	cases := map[string]bool{
		"crew.jpg":        true,
		"crew.JPEG":       true,
		"logo.png":        true,
		"anim.gif":        false,
		"setup.exe":       false,
		"noextension":     false,
		"trailingdot.":    false,
		"archive.png.zip": false,
	}
	for name, want := range cases {
		assert.Equal(t, want, s.Accepts(name), name)
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"crew.jpg":              "crew.jpg",
		"my summer shirt.png":   "my_summer_shirt.png",
		"../../etc/passwd.png":  "etc_passwd.png",
		`C:\Users\me\pic.jpeg`: "C_Users_me_pic.jpeg",
		"café.jpg":              "cafe.jpg",
		"  .hidden.png":         "hidden.png",
		"we$ird#name!.jpg":      "weirdname.jpg",
		"_.jpg":                 "image.jpg",
		"..png":                 "image.png",
	}
	for in, want := range cases {
		assert.Equal(t, want, Sanitize(in), in)
	}
}

func TestSave_WritesUnderKindDirectory(t *testing.T) {
	s, disk := newTestImages(t)

	img, err := s.Save(context.Background(), "tshirts", "my crew.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "my_crew.jpg", img.Name)
	assert.Equal(t, "http://shop.test/uploads/tshirts/my_crew.jpg", img.URL)

	data, err := os.ReadFile(filepath.Join(disk.Root(), "tshirts", "my_crew.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestSave_RejectsDisallowedTypeBeforeWriting(t *testing.T) {
	s, disk := newTestImages(t)

	_, err := s.Save(context.Background(), "tshirts", "virus.exe", strings.NewReader("MZ"))
	assert.ErrorIs(t, err, ErrInvalidImageType)

	entries, err := os.ReadDir(disk.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_EmptyStemKeepsExtension(t *testing.T) {
	s, _ := newTestImages(t)

	img, err := s.Save(context.Background(), "tshirts", "_.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "image.jpg", img.Name)
	assert.Equal(t, "http://shop.test/uploads/tshirts/image.jpg", img.URL)
}

func TestSave_UnknownKind(t *testing.T) {
	s, _ := newTestImages(t)

	_, err := s.Save(context.Background(), "socks", "a.png", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestSave_CollisionGetsSuffix(t *testing.T) {
	s, _ := newTestImages(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "tshirts", "crew.jpg", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := s.Save(ctx, "tshirts", "crew.jpg", strings.NewReader("two"))
	require.NoError(t, err)

	assert.Equal(t, "crew.jpg", first.Name)
	assert.Equal(t, "crew-1.jpg", second.Name)

	f, err := s.Open(ctx, "tshirts", "crew.jpg")
	require.NoError(t, err)
	assert.Equal(t, "one", string(f.Data))
}

func TestSave_ConcurrentUploadsNeverShareAName(t *testing.T) {
	s, _ := newTestImages(t)
	ctx := context.Background()

	const n = 8
	names := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := s.Save(ctx, "tshirts", "crew.jpg", strings.NewReader("x"))
			if assert.NoError(t, err) {
				names <- img.Name
			}
		}()
	}
	wg.Wait()
	close(names)

	seen := map[string]bool{}
	for name := range names {
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, n)
}

func TestOpen(t *testing.T) {
	s, _ := newTestImages(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "combos_details", "box.png", strings.NewReader(string(pngHeader)))
	require.NoError(t, err)

	f, err := s.Open(ctx, "combos_details", "box.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)

	_, err = s.Open(ctx, "combos_details", "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Open(ctx, "socks", "box.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Open(ctx, "combos_details", "../tshirts/box.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	s, _ := newTestImages(t)
	ctx := context.Background()

	img, err := s.Save(ctx, "tshirts", "gone.png", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, "tshirts", img.Name))
	require.NoError(t, s.Remove(ctx, "tshirts", img.Name))

	_, err = s.Open(ctx, "tshirts", img.Name)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNameFromURL(t *testing.T) {
	s, _ := newTestImages(t)

	name, ok := s.NameFromURL("tshirts", "http://shop.test/uploads/tshirts/crew.jpg")
	assert.True(t, ok)
	assert.Equal(t, "crew.jpg", name)

	_, ok = s.NameFromURL("tshirts", "http://elsewhere.test/uploads/tshirts/crew.jpg")
	assert.False(t, ok)
	_, ok = s.NameFromURL("tshirts", "http://shop.test/uploads/combos_details/crew.jpg")
	assert.False(t, ok)
}

func TestLocalDisk_RejectsEscapingPaths(t *testing.T) {
	_, disk := newTestImages(t)

	err := disk.Put(context.Background(), "../outside.png", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = disk.Get(context.Background(), "../outside.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

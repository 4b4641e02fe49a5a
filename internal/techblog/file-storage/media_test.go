package filestorage

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage - хранилище в памяти с семантикой MinioStorage
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	listErr error
}

func newMemStorage(names ...string) *memStorage {
	s := &memStorage{objects: make(map[string][]byte)}
	for _, n := range names {
		s.objects[n] = []byte(n)
	}
	return s
}

func (s *memStorage) SaveReader(ctx context.Context, reader io.Reader, fileSize int64, name string, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = data
	return nil
}

func (s *memStorage) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[name]; !ok {
		return ErrNotFound
	}
	delete(s.objects, name)
	return nil
}

func (s *memStorage) Exist(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[name]
	return ok, nil
}

func (s *memStorage) List(ctx context.Context, prefix string, fn func(FileInfo) error) error {
	if s.listErr != nil {
		return s.listErr
	}
	s.mu.Lock()
	names := make([]string, 0, len(s.objects))
	for n := range s.objects {
		if strings.HasPrefix(n, prefix) {
			names = append(names, n)
		}
	}
	s.mu.Unlock()
	sort.Strings(names)

	for _, n := range names {
		if err := fn(FileInfo{Name: n, Size: int64(len(s.objects[n]))}); err != nil {
			return err
		}
	}
	return nil
}

func TestMediaList(t *testing.T) {
	storage := newMemStorage(
		"media/2024/12/a.png",
		"media/2025/01/b.png",
		"media/2025/01/c d.png",
		"media/2025/01/",
		"other/2025/01/x.png",
	)
	m := &Media{Storage: storage, Prefix: "media", PublicURL: "https://cdn.example.com/article-images/"}

	objects, err := m.List(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, objects, 3)

	assert.Equal(t, "media/2025/01/c d.png", objects[0].Path)
	assert.Equal(t, "c d.png", objects[0].Name)
	assert.Equal(t, "https://cdn.example.com/article-images/media/2025/01/c%20d.png", objects[0].URL)
	assert.Equal(t, "2025", objects[0].Year)
	assert.Equal(t, "01", objects[0].Month)
	assert.Equal(t, "media/2025/01/b.png", objects[1].Path)
	assert.Equal(t, "media/2024/12/a.png", objects[2].Path)

	objects, err = m.List(context.Background(), "2024", "")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "a.png", objects[0].Name)

	objects, err = m.List(context.Background(), "2025", "02")
	require.NoError(t, err)
	assert.NotNil(t, objects)
	assert.Empty(t, objects)
}

func TestMediaListNestedPrefix(t *testing.T) {
	storage := newMemStorage(
		"site/media/2025/01/a.png",
		"site/media/2024/07/b.png",
	)
	m := &Media{Storage: storage, Prefix: "site/media"}

	objects, err := m.List(context.Background(), "2025", "01")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "site/media/2025/01/a.png", objects[0].Path)
	assert.Equal(t, "2025", objects[0].Year)
	assert.Equal(t, "01", objects[0].Month)
}

func TestMediaListError(t *testing.T) {
	storage := newMemStorage()
	storage.listErr = io.ErrUnexpectedEOF
	m := &Media{Storage: storage, Prefix: "media"}

	_, err := m.List(context.Background(), "", "")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestMediaUpload(t *testing.T) {
	storage := newMemStorage()
	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	m := &Media{Storage: storage, Prefix: "media", PublicURL: "https://cdn.example.com", now: func() time.Time { return now }}

	obj, err := m.Upload(context.Background(), "My Photo.PNG", strings.NewReader("img"), 3, "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(obj.Path, "media/2025/03/"))
	assert.True(t, strings.HasSuffix(obj.Name, ".png"))
	assert.Equal(t, "2025", obj.Year)
	assert.Equal(t, "03", obj.Month)
	assert.Equal(t, "https://cdn.example.com/"+obj.Path, obj.URL)

	exist, err := storage.Exist(context.Background(), obj.Path)
	require.NoError(t, err)
	assert.True(t, exist)
}

func TestMediaDelete(t *testing.T) {
	storage := newMemStorage("media/2025/01/b.png", "secret/key.txt")
	m := &Media{Storage: storage, Prefix: "media"}

	assert.ErrorIs(t, m.Delete(context.Background(), "media/../secret/key.txt"), ErrNotFound)
	assert.ErrorIs(t, m.Delete(context.Background(), "media/2025/01/none.png"), ErrNotFound)
	require.NoError(t, m.Delete(context.Background(), "/media/2025/01/b.png"))

	exist, _ := storage.Exist(context.Background(), "secret/key.txt")
	assert.True(t, exist)
}

func TestSafeFileName(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	name := SafeFileName("Скриншот 1.JPG", now)
	assert.True(t, strings.HasPrefix(name, "loyw3v28-"), name)
	assert.True(t, strings.HasSuffix(name, ".jpg"), name)

	name = SafeFileName("noext", now)
	assert.NotContains(t, name, ".")
}

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		prefix, path string
		year, month  string
	}{
		{prefix: "media", path: "media/2025/04/a.png", year: "2025", month: "04"},
		{prefix: "media", path: "media/a.png"},
		{prefix: "media", path: "media/2025/a.png"},
		{prefix: "media", path: "other/2025/04/a.png"},
		{prefix: "site/blog/media", path: "site/blog/media/2024/12/b.jpg", year: "2024", month: "12"},
		{prefix: "", path: "2023/01/c.gif", year: "2023", month: "01"},
	}
	for _, tt := range tests {
		y, m := ParseYearMonth(tt.prefix, tt.path)
		assert.Equal(t, tt.year, y, tt.path)
		assert.Equal(t, tt.month, m, tt.path)
	}
}

package filestorage

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aisa-it/techblog/internal/techblog/dto"
)

var unsafeNameRegexp = regexp.MustCompile(`[^a-z0-9.\-_]`)

// Media - изображения статей под общим префиксом хранилища.
type Media struct {
	Storage   FileStorage
	Prefix    string
	PublicURL string

	// Для тестов
	now func() time.Time
}

func (m *Media) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

// List возвращает все объекты под префиксом, имена по убыванию. Пустые year и month не фильтруют.
func (m *Media) List(ctx context.Context, year, month string) ([]dto.MediaObject, error) {
	objects := []dto.MediaObject{}
	err := m.Storage.List(ctx, m.Prefix+"/", func(info FileInfo) error {
		// Маркеры папок
		if strings.HasSuffix(info.Name, "/") {
			return nil
		}
		y, mo := ParseYearMonth(m.Prefix, info.Name)
		if year != "" && y != year {
			return nil
		}
		if month != "" && mo != month {
			return nil
		}
		objects = append(objects, dto.MediaObject{
			Name:      path.Base(info.Name),
			Path:      info.Name,
			URL:       m.URL(info.Name),
			Bytes:     info.Size,
			UpdatedAt: info.CreatedAt,
			Year:      y,
			Month:     mo,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Path > objects[j].Path
	})
	return objects, nil
}

// Upload сохраняет файл в папку текущего месяца под безопасным именем и возвращает описание объекта.
func (m *Media) Upload(ctx context.Context, fileName string, reader io.Reader, size int64, contentType string) (*dto.MediaObject, error) {
	now := m.clock()
	year := strconv.Itoa(now.Year())
	month := fmt.Sprintf("%02d", int(now.Month()))
	name := SafeFileName(fileName, now)
	objectPath := path.Join(m.Prefix, year, month, name)

	if err := m.Storage.SaveReader(ctx, reader, size, objectPath, contentType); err != nil {
		return nil, err
	}
	return &dto.MediaObject{
		Name:      name,
		Path:      objectPath,
		URL:       m.URL(objectPath),
		Bytes:     size,
		UpdatedAt: now,
		Year:      year,
		Month:     month,
	}, nil
}

// Delete удаляет объект. Пути вне префикса не удаляются.
func (m *Media) Delete(ctx context.Context, objectPath string) error {
	clean := path.Clean("/" + objectPath)[1:]
	if !strings.HasPrefix(clean, m.Prefix+"/") {
		return ErrNotFound
	}
	return m.Storage.Delete(ctx, clean)
}

// URL строит публичную ссылку на объект, экранируя каждый сегмент пути.
func (m *Media) URL(objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimSuffix(m.PublicURL, "/") + "/" + strings.Join(segments, "/")
}

// ParseYearMonth берет год и месяц из пути вида prefix/YYYY/MM/name. Префикс может состоять из нескольких сегментов.
func ParseYearMonth(prefix, objectPath string) (year, month string) {
	rest := objectPath
	if prefix != "" {
		var ok bool
		if rest, ok = strings.CutPrefix(objectPath, prefix+"/"); !ok {
			return "", ""
		}
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 3 {
		return "", ""
	}
	return parts[0], parts[1]
}

// SafeFileName строит имя объекта: метка времени в base36, случайный суффикс и исходное расширение.
func SafeFileName(fileName string, now time.Time) string {
	lower := unsafeNameRegexp.ReplaceAllString(strings.ToLower(fileName), "-")
	ext := ""
	if i := strings.LastIndex(lower, "."); i >= 0 && i < len(lower)-1 {
		ext = lower[i:]
	}
	stamp := strconv.FormatInt(now.UnixMilli(), 36)
	random := strconv.FormatUint(rand.Uint64(), 36)
	if len(random) > 6 {
		random = random[:6]
	}
	return stamp + "-" + random + ext
}

// Содержит структуры данных (DTO) для ответов API блога.
// Используется для передачи данных между слоями приложения.
//
// Основные возможности:
//   - Облегченное представление статьи для списков.
//   - Полное представление статьи с отрендеренным HTML и оглавлением.
//   - Представление категорий, авторов и медиафайлов.
package dto

import (
	"time"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
)

type ArticleLight struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	Category    string     `json:"category"`
	PublishedAt *time.Time `json:"published_at"`
	CoverURL    *string    `json:"cover_url"`
}

type Article struct {
	ArticleLight

	UpdatedAt  time.Time    `json:"updated_at"`
	Tags       []string     `json:"tags"`
	Language   *string      `json:"language,omitempty"`
	PaperTitle *string      `json:"paper_title,omitempty"`
	PaperURL   *string      `json:"paper_url,omitempty"`
	Author     *AuthorLight `json:"author,omitempty"`

	Excerpt     string                  `json:"excerpt"`
	LeadHTML    string                  `json:"lead_html"`
	ContentHTML string                  `json:"content_html"`
	Headings    []edtypes.HeadingAnchor `json:"headings"`
	Degraded    bool                    `json:"degraded"`
}

type CategoryLight struct {
	Slug        string  `json:"slug"`
	Label       string  `json:"label"`
	Description *string `json:"description"`
	Lead        *string `json:"lead,omitempty"`
}

// CategoryArticles - категория вместе со списком ее статей
type CategoryArticles struct {
	Category CategoryLight  `json:"category"`
	Articles []ArticleLight `json:"articles"`
}

type AuthorLight struct {
	ID        int     `json:"id"`
	PenName   string  `json:"pen_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	Expertise *string `json:"expertise,omitempty"`
}

type MediaObject struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	Bytes     int64     `json:"bytes"`
	UpdatedAt time.Time `json:"updated_at"`
	Year      string    `json:"year,omitempty"`
	Month     string    `json:"month,omitempty"`
}

// EditorPreview - результат предпросмотра документа в редакторе
type EditorPreview struct {
	HTML     string                  `json:"html"`
	Headings []edtypes.HeadingAnchor `json:"headings"`
	Degraded bool                    `json:"degraded"`
}

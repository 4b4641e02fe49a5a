package dao

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"github.com/aisa-it/techblog/internal/techblog/dto"
	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
)

// Колонки для списков статей. Тело и лид в списки не попадают.
var postListColumns = []string{"id", "title", "slug", "description", "category", "published_at", "status", "cover_url"}

// GetPublishedPost возвращает опубликованную статью по slug вместе с автором.
// Если статьи нет или она не опубликована, возвращает gorm.ErrRecordNotFound.
func GetPublishedPost(db *gorm.DB, slug string) (*Post, error) {
	var post Post
	if err := db.
		Preload("Author").
		Where("slug = ?", slug).
		Where("status = ?", PostStatusPublished).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPost возвращает статью по ID вне зависимости от статуса.
func GetPost(db *gorm.DB, id uuid.UUID) (*Post, error) {
	var post Post
	if err := db.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPublishedPosts возвращает опубликованные статьи, новые первыми. Пустая категория - все категории.
// limit <= 0 снимает ограничение.
func ListPublishedPosts(db *gorm.DB, category string, limit int) ([]Post, error) {
	query := db.
		Select(postListColumns).
		Where("status = ?", PostStatusPublished).
		Order("published_at DESC NULLS LAST").
		Order("slug")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	posts := []Post{}
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// PostDocuments - тело и лид статьи для редактора. NULL в колонке дает пустой документ.
type PostDocuments struct {
	Content edtypes.Document
	Lead    edtypes.Document
}

// GetPostDocuments читает тело и лид статьи. Документы проверяются строгим парсером при сканировании,
// нарушение схемы возвращается как *edtypes.SchemaViolation.
func GetPostDocuments(db *gorm.DB, id uuid.UUID) (*PostDocuments, error) {
	var docs PostDocuments
	if err := db.Model(&Post{}).
		Select("content", "lead").
		Where("id = ?", id).
		Take(&docs).Error; err != nil {
		return nil, err
	}
	return &docs, nil
}

// UpdatePostContent сохраняет тело и лид статьи. nil лид сохраняется как NULL.
func UpdatePostContent(db *gorm.DB, id uuid.UUID, content, lead *edtypes.Document) error {
	contentValue, err := documentValue(content)
	if err != nil {
		return err
	}
	leadValue, err := documentValue(lead)
	if err != nil {
		return err
	}

	res := db.Model(&Post{}).Where("id = ?", id).Updates(map[string]any{
		"content":    contentValue,
		"lead":       leadValue,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func documentValue(doc *edtypes.Document) (any, error) {
	if doc == nil {
		return nil, nil
	}
	return doc.Value()
}

// ToLightDTO преобразует статью в облегченное представление для списков.
func (p *Post) ToLightDTO() *dto.ArticleLight {
	if p == nil {
		return nil
	}
	return &dto.ArticleLight{
		ID:          p.ID.String(),
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Category:    p.Category,
		PublishedAt: p.PublishedAt,
		CoverURL:    p.CoverURL,
	}
}

// ToDTO заполняет метаданные статьи. HTML тела и лида заполняет вызывающий код.
func (p *Post) ToDTO() *dto.Article {
	if p == nil {
		return nil
	}
	tags := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return &dto.Article{
		ArticleLight: *p.ToLightDTO(),
		UpdatedAt:    p.UpdatedAt,
		Tags:         tags,
		Language:     p.Language,
		PaperTitle:   p.PaperTitle,
		PaperURL:     p.PaperURL,
		Author:       p.Author.ToLightDTO(),
	}
}

func (a *Author) ToLightDTO() *dto.AuthorLight {
	if a == nil {
		return nil
	}
	return &dto.AuthorLight{
		ID:        a.ID,
		PenName:   a.PenName,
		Bio:       a.Bio,
		AvatarURL: a.AvatarURL,
		Expertise: a.Expertise,
	}
}

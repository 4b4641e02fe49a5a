// DAO (Data Access Object) - интерфейс к хранилищу статей блога. Хранилище внешнее по отношению к рендеру:
// тело статьи и лид лежат в нем как сырой JSON документа и разбираются только при чтении.
//
// Основные возможности:
//   - Модели статей, категорий и авторов.
//   - Чтение опубликованных статей по slug и списков по категории.
//   - Сохранение нормализованного тела и лида статьи.
//   - Преобразование моделей в DTO.
package dao

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// GenUUID генерирует уникальный идентификатор в формате UUID.
func GenUUID() uuid.UUID {
	u2, _ := uuid.NewV4()
	return u2
}

// AllModels - модели для AutoMigrate
func AllModels() []any {
	return []any{&Category{}, &Author{}, &Post{}}
}

// Migrate создает и обновляет таблицы хранилища.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

type Post struct {
	ID uuid.UUID `gorm:"column:id;primaryKey;type:uuid" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string  `json:"title" gorm:"not null"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;not null"`
	Description *string `json:"description"`
	Category    string  `json:"category" gorm:"index"`

	// Сырой JSON документа. Может быть любым значением, не только документом
	Lead    json.RawMessage `json:"lead" gorm:"type:jsonb"`
	Content json.RawMessage `json:"content" gorm:"type:jsonb"`

	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	CoverURL    *string        `json:"cover_url"`
	PublishedAt *time.Time     `json:"published_at" gorm:"index"`
	Status      string         `json:"status" gorm:"default:draft;index"`
	Language    *string        `json:"language"`
	PaperURL    *string        `json:"paper_url"`
	PaperTitle  *string        `json:"paper_title"`

	AuthorID *int    `json:"author_id"`
	Author   *Author `json:"author,omitempty" gorm:"foreignKey:AuthorID" extensions:"x-nullable"`
}

func (Post) TableName() string { return "posts" }

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = GenUUID()
	}
	if p.Status == "" {
		p.Status = PostStatusDraft
	}
	return
}

// IsPublished - статья видна читателям
func (p *Post) IsPublished() bool {
	return p != nil && p.Status == PostStatusPublished
}

type Category struct {
	ID          int     `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;not null"`
	Label       string  `json:"label"`
	Description *string `json:"description"`
	Lead        *string `json:"lead"`
	OrderIndex  *int    `json:"order_index"`
}

func (Category) TableName() string { return "categories" }

type Author struct {
	ID        int     `gorm:"primaryKey;autoIncrement" json:"id"`
	PenName   string  `json:"pen_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	Expertise *string `json:"expertise"`
}

func (Author) TableName() string { return "authors" }

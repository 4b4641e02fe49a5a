package dao

import (
	"gorm.io/gorm"

	"github.com/aisa-it/techblog/internal/techblog/dto"
)

// GetCategory возвращает категорию по slug.
func GetCategory(db *gorm.DB, slug string) (*Category, error) {
	var category Category
	if err := db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories возвращает категории в порядке order_index, категории без порядка идут последними.
func ListCategories(db *gorm.DB) ([]Category, error) {
	categories := []Category{}
	if err := db.
		Order("order_index ASC NULLS LAST").
		Order("slug").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Category) ToLightDTO() *dto.CategoryLight {
	if c == nil {
		return nil
	}
	return &dto.CategoryLight{
		Slug:        c.Slug,
		Label:       c.Label,
		Description: c.Description,
		Lead:        c.Lead,
	}
}

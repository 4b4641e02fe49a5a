package techblog

import (
	"encoding/json"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
)

type ArticleListRequest struct {
	Category string `query:"category" validate:"omitempty,slug"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type PostContentRequest struct {
	Content json.RawMessage `json:"content"`
	Lead    json.RawMessage `json:"lead"`
}

type PostContentResponse struct {
	Content *edtypes.Document `json:"content"`
	Lead    *edtypes.Document `json:"lead"`
}

type MediaListRequest struct {
	Year  string `query:"year" validate:"omitempty,year"`
	Month string `query:"month" validate:"omitempty,month"`
}

type MediaDeleteRequest struct {
	Path string `query:"path" validate:"required"`
}

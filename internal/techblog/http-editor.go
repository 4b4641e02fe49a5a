package techblog

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aisa-it/techblog/internal/techblog/apierrors"
	"github.com/aisa-it/techblog/internal/techblog/dto"
	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
	"github.com/aisa-it/techblog/internal/techblog/editor/tiptap"
)

func (s *Services) AddEditorServices(g *echo.Group) {
	g.POST("validate/", s.validateDocument)
	g.POST("preview/", s.previewDocument)
}

// validateDocument строго разбирает документ и возвращает его нормализованную форму.
func (s *Services) validateDocument(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return EErrorMsgStatus(c, err, http.StatusBadRequest)
	}

	doc, err := s.parseDocument(body)
	if err != nil {
		return documentError(c, err, "")
	}
	return c.JSON(http.StatusOK, doc)
}

// previewDocument рендерит документ как на публичной странице. Некорректный документ дает пустой результат с degraded.
func (s *Services) previewDocument(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return EErrorMsgStatus(c, err, http.StatusBadRequest)
	}

	res := s.renderer.Render(json.RawMessage(body))
	return c.JSON(http.StatusOK, dto.EditorPreview{
		HTML:     res.HTML,
		Headings: res.Headings,
		Degraded: res.Degraded,
	})
}

// parseDocument строго разбирает документ. Нормализованная форма получается при его сериализации.
func (s *Services) parseDocument(data []byte) (*edtypes.Document, error) {
	return tiptap.Parser{MaxDepth: s.cfg.RenderMaxDepth}.Parse(bytes.NewReader(data))
}

// documentError отвечает 400. Для нарушения схемы добавляет путь и причину, field - префикс пути.
func documentError(c echo.Context, err error, field string) error {
	if e, ok := apierrors.SchemaViolation(err); ok {
		if field != "" {
			if e.Path != "" {
				e.Path = field + "." + e.Path
			} else {
				e.Path = field
			}
		}
		return EErrorDefined(c, e)
	}
	return EErrorDefined(c, apierrors.ErrInvalidRequest.WithFormattedMessage(err.Error()))
}

// isEmptyJSON - значение отсутствует или равно null
func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := string(bytes.TrimSpace(raw))
	return trimmed == "" || trimmed == "null"
}

package techblog

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/aisa-it/techblog/internal/techblog/apierrors"
	"github.com/aisa-it/techblog/internal/techblog/dao"
	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
	filestorage "github.com/aisa-it/techblog/internal/techblog/file-storage"
)

func (s *Services) AddAdminServices(g *echo.Group) {
	g.GET("posts/:postId/content/", s.getPostContent)
	g.PUT("posts/:postId/content/", s.updatePostContent)

	mediaGroup := g.Group("media/", s.MediaMiddleware)
	mediaGroup.GET("", s.listMedia)
	mediaGroup.POST("", s.uploadMedia)
	mediaGroup.DELETE("", s.deleteMedia)
}

// getPostContent отдает тело и лид статьи для загрузки в редактор.
// Сохраненный документ вне схемы дает ошибку нарушения схемы, пустой лид возвращается как null.
func (s *Services) getPostContent(c echo.Context) error {
	postID, err := uuid.FromString(c.Param("postId"))
	if err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidID)
	}

	docs, err := dao.GetPostDocuments(s.db, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EErrorDefined(c, apierrors.ErrPostNotFound)
		}
		if errors.Is(err, edtypes.ErrSchemaViolation) {
			return documentError(c, err, "")
		}
		return EError(c, err)
	}

	res := PostContentResponse{Content: &docs.Content}
	if len(docs.Lead.Content) > 0 {
		res.Lead = &docs.Lead
	}
	return c.JSON(http.StatusOK, res)
}

// updatePostContent строго проверяет тело и лид и сохраняет их нормализованную форму.
func (s *Services) updatePostContent(c echo.Context) error {
	postID, err := uuid.FromString(c.Param("postId"))
	if err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidID)
	}

	var req PostContentRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequest.WithFormattedMessage(err.Error()))
	}
	if isEmptyJSON(req.Content) {
		return EErrorDefined(c, apierrors.ErrDocumentRequired)
	}

	var res PostContentResponse
	res.Content, err = s.parseDocument(req.Content)
	if err != nil {
		return documentError(c, err, "content")
	}
	if !isEmptyJSON(req.Lead) {
		res.Lead, err = s.parseDocument(req.Lead)
		if err != nil {
			return documentError(c, err, "lead")
		}
	}

	if err := dao.UpdatePostContent(s.db, postID, res.Content, res.Lead); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EErrorDefined(c, apierrors.ErrPostNotFound)
		}
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Services) listMedia(c echo.Context) error {
	var req MediaListRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequest.WithFormattedMessage(err.Error()))
	}
	if err := c.Validate(req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequest.WithFormattedMessage(err.Error()))
	}

	objects, err := s.media.List(c.Request().Context(), req.Year, req.Month)
	if err != nil {
		slog.Error("List media objects", "err", err)
		return EErrorDefined(c, apierrors.ErrMediaListFailed)
	}
	return c.JSON(http.StatusOK, objects)
}

func (s *Services) uploadMedia(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return EErrorDefined(c, apierrors.ErrMediaFileRequired)
	}
	contentType := file.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return EErrorDefined(c, apierrors.ErrMediaNotImage)
	}

	src, err := file.Open()
	if err != nil {
		return EError(c, err)
	}
	defer src.Close()

	obj, err := s.media.Upload(c.Request().Context(), file.Filename, src, file.Size, contentType)
	if err != nil {
		return EErrorMsgStatus(c, err, http.StatusBadGateway)
	}
	return c.JSON(http.StatusCreated, obj)
}

func (s *Services) deleteMedia(c echo.Context) error {
	var req MediaDeleteRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequest.WithFormattedMessage(err.Error()))
	}
	if err := c.Validate(req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequest.WithFormattedMessage(err.Error()))
	}

	if err := s.media.Delete(c.Request().Context(), req.Path); err != nil {
		if errors.Is(err, filestorage.ErrNotFound) {
			return EErrorDefined(c, apierrors.ErrMediaNotFound)
		}
		return EErrorMsgStatus(c, err, http.StatusBadGateway)
	}
	return c.NoContent(http.StatusNoContent)
}

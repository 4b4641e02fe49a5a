package techblog

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aisa-it/techblog/internal/techblog/apierrors"
)

// AdminMiddleware пропускает запросы со статическим токеном администратора в заголовке Authorization: Bearer <token>.
// Пустой ADMIN_TOKEN отключает административное API.
func (s *Services) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.cfg.AdminToken == "" {
			return EErrorDefined(c, apierrors.ErrAdminDisabled)
		}

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return EErrorDefined(c, apierrors.ErrAdminTokenRequired)
		}
		if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(s.cfg.AdminToken)) != 1 {
			return EErrorDefined(c, apierrors.ErrAdminTokenInvalid)
		}
		return next(c)
	}
}

// MediaMiddleware отвечает 503, если объектное хранилище не настроено.
func (s *Services) MediaMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.media == nil {
			return EErrorDefined(c, apierrors.ErrMediaStorageDisabled)
		}
		return next(c)
	}
}

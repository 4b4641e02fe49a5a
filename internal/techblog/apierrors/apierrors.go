// Пакет содержит определения ошибок API блога. Каждая ошибка имеет код, статус HTTP и описание
// на английском и японском, что позволяет фронтенду показывать понятное сообщение читателю или редактору.
//
// Основные возможности:
//   - Каталог ошибок, сгруппированных по кодам (общие, статьи, редактор, медиа, администрирование).
//   - Соответствие ошибок кодам HTTP статусов.
//   - Форматирование сообщений с аргументами.
//   - Подробности нарушения схемы документа (путь и причина).
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
)

type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
	JaErr      string `json:"ja_error,omitempty"`

	// Заполняется только для ошибок схемы документа
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (e DefinedError) Error() string {
	return e.Err
}

// Is сравнивает ошибки по коду, чтобы отформатированные копии совпадали с исходной.
func (e DefinedError) Is(target error) bool {
	t, ok := target.(DefinedError)
	return ok && t.Code == e.Code
}

var (
	// 1*** - common errors
	ErrGeneric          = DefinedError{Code: 1000, StatusCode: http.StatusBadRequest, Err: "bad request", JaErr: "リクエストが正しくありません"}
	ErrInternal         = DefinedError{Code: 1001, StatusCode: http.StatusInternalServerError, Err: "internal server error", JaErr: "サーバーエラーが発生しました"}
	ErrEntityToLarge    = DefinedError{Code: 1002, StatusCode: http.StatusRequestEntityTooLarge, Err: "request entity too large", JaErr: "リクエストが大きすぎます"}
	ErrInvalidID        = DefinedError{Code: 1003, StatusCode: http.StatusBadRequest, Err: "invalid ID", JaErr: "IDが正しくありません"}
	ErrInvalidRequest   = DefinedError{Code: 1004, StatusCode: http.StatusBadRequest, Err: "invalid request: %s", JaErr: "リクエストの形式が正しくありません: %s"}
	ErrPageNotFound     = DefinedError{Code: 1005, StatusCode: http.StatusNotFound, Err: "page not found", JaErr: "ページが見つかりません"}
	ErrMethodNotAllowed = DefinedError{Code: 1006, StatusCode: http.StatusMethodNotAllowed, Err: "method not allowed", JaErr: "許可されていないメソッドです"}

	// 2*** - article errors
	ErrPostNotFound     = DefinedError{Code: 2001, StatusCode: http.StatusNotFound, Err: "post not found", JaErr: "記事が見つかりません"}
	ErrCategoryNotFound = DefinedError{Code: 2002, StatusCode: http.StatusNotFound, Err: "category not found", JaErr: "カテゴリが見つかりません"}
	ErrPostSlugInvalid  = DefinedError{Code: 2003, StatusCode: http.StatusBadRequest, Err: "invalid post slug", JaErr: "記事のスラッグが正しくありません"}

	// 3*** - editor errors
	ErrDocumentSchemaViolation = DefinedError{Code: 3001, StatusCode: http.StatusBadRequest, Err: "document schema violation", JaErr: "ドキュメントの形式が正しくありません"}
	ErrDocumentRequired        = DefinedError{Code: 3002, StatusCode: http.StatusBadRequest, Err: "document content is required", JaErr: "本文は必須です"}

	// 4*** - media errors
	ErrMediaStorageDisabled = DefinedError{Code: 4001, StatusCode: http.StatusServiceUnavailable, Err: "media storage is not configured", JaErr: "メディアストレージが設定されていません"}
	ErrMediaListFailed      = DefinedError{Code: 4002, StatusCode: http.StatusBadGateway, Err: "failed to list media objects", JaErr: "メディア一覧を取得できませんでした"}
	ErrMediaNotImage        = DefinedError{Code: 4003, StatusCode: http.StatusUnsupportedMediaType, Err: "only images can be uploaded", JaErr: "画像ファイルのみアップロードできます"}
	ErrMediaNotFound        = DefinedError{Code: 4004, StatusCode: http.StatusNotFound, Err: "media object not found", JaErr: "画像が見つかりません"}
	ErrMediaFileRequired    = DefinedError{Code: 4005, StatusCode: http.StatusBadRequest, Err: "file is required", JaErr: "ファイルを選択してください"}

	// 5*** - admin errors
	ErrAdminTokenRequired = DefinedError{Code: 5001, StatusCode: http.StatusUnauthorized, Err: "admin token is required", JaErr: "管理者トークンが必要です"}
	ErrAdminTokenInvalid  = DefinedError{Code: 5002, StatusCode: http.StatusUnauthorized, Err: "invalid admin token", JaErr: "管理者トークンが正しくありません"}
	ErrAdminDisabled      = DefinedError{Code: 5003, StatusCode: http.StatusForbidden, Err: "admin API is disabled", JaErr: "管理APIは無効です"}
)

func (e DefinedError) WithFormattedMessage(args ...interface{}) DefinedError {
	if len(args) > 0 {
		e.Err = fmt.Sprintf(e.Err, args...)
		e.JaErr = fmt.Sprintf(e.JaErr, args...)
	} else {
		e.Err = strings.Replace(e.Err, ": %s", "", -1)
		e.JaErr = strings.Replace(e.JaErr, ": %s", "", -1)
	}
	return e
}

// SchemaViolation переводит нарушение схемы в ErrDocumentSchemaViolation с путем и причиной.
// Для прочих ошибок возвращает false.
func SchemaViolation(err error) (DefinedError, bool) {
	var sv *edtypes.SchemaViolation
	if !errors.As(err, &sv) {
		return DefinedError{}, false
	}
	e := ErrDocumentSchemaViolation
	e.Path = sv.Path
	e.Reason = sv.Reason
	return e, true
}

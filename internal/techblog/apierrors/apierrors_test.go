package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
)

func TestWithFormattedMessage(t *testing.T) {
	e := ErrInvalidRequest.WithFormattedMessage("lead")
	assert.Equal(t, "invalid request: lead", e.Err)
	assert.Equal(t, "リクエストの形式が正しくありません: lead", e.JaErr)

	e = ErrInvalidRequest.WithFormattedMessage()
	assert.Equal(t, "invalid request", e.Err)
	assert.True(t, errors.Is(e, ErrInvalidRequest))
}

func TestSchemaViolation(t *testing.T) {
	err := fmt.Errorf("save: %w", edtypes.Violation("content[0].attrs.level", "heading level must be 2, 3 or 4"))

	e, ok := SchemaViolation(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, e.StatusCode)
	assert.Equal(t, ErrDocumentSchemaViolation.Code, e.Code)
	assert.Equal(t, "content[0].attrs.level", e.Path)
	assert.Equal(t, "heading level must be 2, 3 or 4", e.Reason)

	_, ok = SchemaViolation(errors.New("boom"))
	assert.False(t, ok)
}

func TestCodesUnique(t *testing.T) {
	all := []DefinedError{
		ErrGeneric, ErrInternal, ErrEntityToLarge, ErrInvalidID, ErrInvalidRequest, ErrPageNotFound, ErrMethodNotAllowed,
		ErrPostNotFound, ErrCategoryNotFound, ErrPostSlugInvalid,
		ErrDocumentSchemaViolation, ErrDocumentRequired,
		ErrMediaStorageDisabled, ErrMediaListFailed, ErrMediaNotImage, ErrMediaNotFound, ErrMediaFileRequired,
		ErrAdminTokenRequired, ErrAdminTokenInvalid, ErrAdminDisabled,
	}
	seen := make(map[int]string)
	for _, e := range all {
		if prev, ok := seen[e.Code]; ok {
			t.Fatalf("code %d used by %q and %q", e.Code, prev, e.Err)
		}
		seen[e.Code] = e.Err
		assert.NotEmpty(t, http.StatusText(e.StatusCode), e.Err)
	}
}

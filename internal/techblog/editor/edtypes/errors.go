package edtypes

import (
	"errors"
	"fmt"
)

// ErrSchemaViolation сопоставляется через errors.Is с любой *SchemaViolation.
var ErrSchemaViolation = errors.New("schema violation")

// SchemaViolation - документ не соответствует схеме: неизвестный тип узла или метки,
// отсутствует обязательный атрибут, нарушена вложенность или превышена глубина.
type SchemaViolation struct {
	Path   string // путь до узла в JSON, например content[1].content[0]
	Reason string
}

func (e *SchemaViolation) Error() string {
	if e.Path == "" {
		return "schema violation: " + e.Reason
	}
	return fmt.Sprintf("schema violation at %s: %s", e.Path, e.Reason)
}

func (e *SchemaViolation) Is(target error) bool {
	return target == ErrSchemaViolation
}

func Violation(path string, format string, args ...any) *SchemaViolation {
	return &SchemaViolation{Path: path, Reason: fmt.Sprintf(format, args...)}
}

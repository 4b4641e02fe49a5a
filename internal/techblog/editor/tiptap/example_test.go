package tiptap_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
	"github.com/aisa-it/techblog/internal/techblog/editor/tiptap"
)

// ExampleParseJSON демонстрирует базовое использование парсера TipTap JSON.
func ExampleParseJSON() {
	jsonContent := `{
		"type": "doc",
		"content": [
			{
				"type": "heading",
				"attrs": {"level": 2},
				"content": [{"type": "text", "text": "はじめに"}]
			},
			{
				"type": "paragraph",
				"content": [
					{"type": "text", "marks": [{"type": "bold"}], "text": "Привет"},
					{"type": "text", "text": " "},
					{"type": "mathInline", "attrs": {"latex": "x^2"}}
				]
			}
		]
	}`

	doc, err := tiptap.ParseJSON(strings.NewReader(jsonContent))
	if err != nil {
		fmt.Printf("Ошибка парсинга: %v\n", err)
		return
	}

	fmt.Printf("Документ содержит %d элементов\n", len(doc.Content))

	// Output:
	// Документ содержит 2 элементов
}

// ExampleParser демонстрирует разницу строгого и мягкого режимов.
func ExampleParser() {
	jsonContent := `{"type":"doc","content":[{"type":"heading","attrs":{"level":6},"content":[{"type":"text","text":"Deep"}]}]}`

	_, err := tiptap.ParseJSON(strings.NewReader(jsonContent))
	fmt.Println(errors.Is(err, edtypes.ErrSchemaViolation), err)

	doc, _ := tiptap.Parser{Coerce: true}.Parse(strings.NewReader(jsonContent))
	fmt.Println(doc.Content[0].(*edtypes.Heading).Level)

	// Output:
	// true schema violation at content[0].attrs.level: heading level must be 2, 3 or 4
	// 4
}

package editor_test

import (
	"fmt"

	"github.com/aisa-it/techblog/internal/techblog/editor"
)

// ExampleRender демонстрирует рендер документа и оглавление.
func ExampleRender() {
	content := `{"type":"doc","content":[
		{"type":"heading","attrs":{"level":2},"content":[{"type":"text","text":"はじめに"}]},
		{"type":"paragraph","content":[{"type":"text","marks":[{"type":"bold"}],"text":"Hello"}]},
		{"type":"heading","attrs":{"level":2},"content":[{"type":"text","text":"はじめに"}]}
	]}`

	res := editor.Render(content)
	fmt.Println(res.HTML)
	for _, h := range res.Headings {
		fmt.Println(h.Level, h.ID, h.Text)
	}

	// Output:
	// <h2 id="はじめに">はじめに</h2><p><strong>Hello</strong></p><h2 id="はじめに-2">はじめに</h2>
	// 2 はじめに はじめに
	// 2 はじめに-2 はじめに
}

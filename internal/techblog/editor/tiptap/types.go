// Пакет tiptap разбирает и сериализует JSON документы редактора TipTap в модель edtypes.
//
// Основные возможности:
//   - Строгий разбор (ParseJSON) для сохранения статей: любое нарушение схемы возвращает *edtypes.SchemaViolation с путем до узла.
//   - Мягкий разбор (Parser{Coerce: true}) для публичного рендера: неизвестные и неуместные узлы отбрасываются.
//   - Ограничение глубины вложенности (DefaultMaxDepth) в обоих режимах.
//   - Сериализация обратно в TipTap JSON с сохранением порядка меток и неизвестных атрибутов.
package tiptap

// TipTapNode - узел TipTap JSON в том виде, в котором его сохраняет редактор.
type TipTapNode struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []TipTapNode   `json:"content,omitempty"`
	Marks   []TipTapMark   `json:"marks,omitempty"`
	Text    *string        `json:"text,omitempty"`
}

// TipTapMark - метка форматирования текста.
type TipTapMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Старые версии редактора сохраняли формулы под другими именами
var nodeAliases = map[string]string{
	"inlineMath":  "mathInline",
	"math_inline": "mathInline",
	"blockMath":   "mathBlock",
	"math_block":  "mathBlock",
}

func canonicalType(t string) string {
	if alias, ok := nodeAliases[t]; ok {
		return alias
	}
	return t
}

// Пакет edtypes описывает модель документа редактора статей: закрытый набор типов узлов и меток,
// их атрибуты и правила вложенности.
//
// Основные возможности:
//   - Типы блочных и строчных узлов (sealed-интерфейсы Block и Inline).
//   - Метки форматирования текста (Mark) с сохранением порядка при сериализации.
//   - Прозрачная передача неизвестных атрибутов (Attrs) для совместимости со старыми документами.
//   - Хранение документа в JSONB колонке через зарегистрированные парсер и сериализатор.
package edtypes

type NodeType string

const (
	TypeDoc            NodeType = "doc"
	TypeParagraph      NodeType = "paragraph"
	TypeHeading        NodeType = "heading"
	TypeBlockquote     NodeType = "blockquote"
	TypeBulletList     NodeType = "bulletList"
	TypeOrderedList    NodeType = "orderedList"
	TypeListItem       NodeType = "listItem"
	TypeCodeBlock      NodeType = "codeBlock"
	TypeHorizontalRule NodeType = "horizontalRule"
	TypeTable          NodeType = "table"
	TypeTableRow       NodeType = "tableRow"
	TypeTableCell      NodeType = "tableCell"
	TypeTableHeader    NodeType = "tableHeader"
	TypeImage          NodeType = "image"
	TypeText           NodeType = "text"
	TypeHardBreak      NodeType = "hardBreak"
	TypeMathInline     NodeType = "mathInline"
	TypeMathBlock      NodeType = "mathBlock"
)

const (
	MinHeadingLevel = 2
	MaxHeadingLevel = 4
)

// Attrs - атрибуты узла или метки, не описанные схемой. Сохраняются как есть и записываются обратно при сериализации.
type Attrs map[string]any

// Node - любой узел дерева документа.
type Node interface {
	NodeType() NodeType
}

// Block - узел, допустимый на уровне документа и внутри контейнеров (цитата, элемент списка, ячейка).
type Block interface {
	Node
	block()
}

// Inline - узел, допустимый внутри абзаца и заголовка.
type Inline interface {
	Node
	inline()
}

type Paragraph struct {
	Content []Inline
	Attrs   Attrs
}

type Heading struct {
	Level   int
	Content []Inline
	Attrs   Attrs
}

type Quote struct {
	Content []Block
	Attrs   Attrs
}

type List struct {
	Ordered bool
	Start   int // только для нумерованного списка, 0 = по умолчанию (1)
	Items   []ListItem
	Attrs   Attrs
}

type ListItem struct {
	Content []Block
	Attrs   Attrs
}

type Code struct {
	Language string
	Content  string
	Attrs    Attrs
}

type HorizontalRule struct {
	Attrs Attrs
}

type Table struct {
	Rows  []TableRow
	Attrs Attrs
}

type TableRow struct {
	Cells []TableCell
	Attrs Attrs
}

type TableCell struct {
	Header   bool
	ColSpan  int
	RowSpan  int
	ColWidth []int
	Content  []Block
	Attrs    Attrs
}

// Image может стоять как отдельным блоком, так и внутри абзаца.
type Image struct {
	Src   string
	Alt   string
	Title string
	Attrs Attrs
}

type Text struct {
	Content string
	Marks   []Mark
}

type HardBreak struct {
	Attrs Attrs
}

type MathInline struct {
	Latex string
	Attrs Attrs
}

type MathBlock struct {
	Latex string
	Attrs Attrs
}

func (*Paragraph) NodeType() NodeType      { return TypeParagraph }
func (*Heading) NodeType() NodeType        { return TypeHeading }
func (*Quote) NodeType() NodeType          { return TypeBlockquote }
func (*Code) NodeType() NodeType           { return TypeCodeBlock }
func (*HorizontalRule) NodeType() NodeType { return TypeHorizontalRule }
func (*Table) NodeType() NodeType          { return TypeTable }
func (*Image) NodeType() NodeType          { return TypeImage }
func (*Text) NodeType() NodeType           { return TypeText }
func (*HardBreak) NodeType() NodeType      { return TypeHardBreak }
func (*MathInline) NodeType() NodeType     { return TypeMathInline }
func (*MathBlock) NodeType() NodeType      { return TypeMathBlock }

func (l *List) NodeType() NodeType {
	if l.Ordered {
		return TypeOrderedList
	}
	return TypeBulletList
}

func (*Paragraph) block()      {}
func (*Heading) block()        {}
func (*Quote) block()          {}
func (*List) block()           {}
func (*Code) block()           {}
func (*HorizontalRule) block() {}
func (*Table) block()          {}
func (*Image) block()          {}
func (*MathBlock) block()      {}

func (*Text) inline()       {}
func (*HardBreak) inline()  {}
func (*MathInline) inline() {}
func (*Image) inline()      {}

type MarkType string

const (
	MarkBold      MarkType = "bold"
	MarkItalic    MarkType = "italic"
	MarkStrike    MarkType = "strike"
	MarkUnderline MarkType = "underline"
	MarkCode      MarkType = "code"
	MarkHighlight MarkType = "highlight"
	MarkLink      MarkType = "link"
	MarkTextSize  MarkType = "textSize"
)

// TextSizeSmall - единственное допустимое значение size у метки textSize, кроме null.
const TextSizeSmall = "s"

// Mark - метка форматирования текста. Href, Target и Rel заполняются только для ссылки, Size - для textSize.
type Mark struct {
	Type   MarkType
	Href   string
	Target string
	Rel    string
	Size   string
	Attrs  Attrs
}

// HeadingAnchor - элемент оглавления статьи, вычисляется при рендере и не хранится.
type HeadingAnchor struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

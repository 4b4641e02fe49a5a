package tiptap

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
)

// Serialize сериализует edtypes.Document в TipTap JSON.
// Для любого документа, принятого ParseJSON, ParseJSON(Serialize(doc)) дает равный документ.
func Serialize(doc *edtypes.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	return json.Marshal(SerializeNode(doc))
}

// SerializeNode строит корневой TipTapNode без кодирования в JSON.
func SerializeNode(doc *edtypes.Document) TipTapNode {
	return TipTapNode{
		Type:    string(edtypes.TypeDoc),
		Attrs:   withExtra(doc.Attrs, nil),
		Content: serializeBlocks(doc.Content),
	}
}

func serializeBlocks(blocks []edtypes.Block) []TipTapNode {
	var res []TipTapNode
	for _, b := range blocks {
		if node := serializeBlock(b); node != nil {
			res = append(res, *node)
		}
	}
	return res
}

// serializeBlock преобразует блочный элемент в TipTap ноду.
func serializeBlock(block edtypes.Block) *TipTapNode {
	switch b := block.(type) {
	case *edtypes.Paragraph:
		return &TipTapNode{
			Type:    string(edtypes.TypeParagraph),
			Attrs:   withExtra(b.Attrs, nil),
			Content: serializeInlines(b.Content),
		}
	case *edtypes.Heading:
		return &TipTapNode{
			Type:    string(edtypes.TypeHeading),
			Attrs:   withExtra(b.Attrs, map[string]any{"level": b.Level}),
			Content: serializeInlines(b.Content),
		}
	case *edtypes.Quote:
		return &TipTapNode{
			Type:    string(edtypes.TypeBlockquote),
			Attrs:   withExtra(b.Attrs, nil),
			Content: serializeBlocks(b.Content),
		}
	case *edtypes.List:
		return serializeList(b)
	case *edtypes.Code:
		return serializeCode(b)
	case *edtypes.HorizontalRule:
		return &TipTapNode{Type: string(edtypes.TypeHorizontalRule), Attrs: withExtra(b.Attrs, nil)}
	case *edtypes.Table:
		return serializeTable(b)
	case *edtypes.Image:
		return serializeImage(b)
	case *edtypes.MathBlock:
		return &TipTapNode{
			Type:  string(edtypes.TypeMathBlock),
			Attrs: withExtra(b.Attrs, map[string]any{"latex": b.Latex}),
		}
	default:
		slog.Warn("Unknown block type for serialization", "type", block)
		return nil
	}
}

func serializeInlines(inlines []edtypes.Inline) []TipTapNode {
	var res []TipTapNode
	for _, in := range inlines {
		if node := serializeInline(in); node != nil {
			res = append(res, *node)
		}
	}
	return res
}

func serializeInline(inline edtypes.Inline) *TipTapNode {
	switch in := inline.(type) {
	case *edtypes.Text:
		text := in.Content
		return &TipTapNode{
			Type:  string(edtypes.TypeText),
			Text:  &text,
			Marks: serializeMarks(in.Marks),
		}
	case *edtypes.HardBreak:
		return &TipTapNode{Type: string(edtypes.TypeHardBreak), Attrs: withExtra(in.Attrs, nil)}
	case *edtypes.MathInline:
		return &TipTapNode{
			Type:  string(edtypes.TypeMathInline),
			Attrs: withExtra(in.Attrs, map[string]any{"latex": in.Latex}),
		}
	case *edtypes.Image:
		return serializeImage(in)
	default:
		slog.Warn("Unknown inline type for serialization", "type", inline)
		return nil
	}
}

func serializeList(list *edtypes.List) *TipTapNode {
	node := &TipTapNode{Type: string(list.NodeType())}
	if list.Ordered && list.Start != 0 {
		node.Attrs = withExtra(list.Attrs, map[string]any{"start": list.Start})
	} else {
		node.Attrs = withExtra(list.Attrs, nil)
	}

	for _, item := range list.Items {
		node.Content = append(node.Content, TipTapNode{
			Type:    string(edtypes.TypeListItem),
			Attrs:   withExtra(item.Attrs, nil),
			Content: serializeBlocks(item.Content),
		})
	}
	return node
}

func serializeCode(code *edtypes.Code) *TipTapNode {
	var language any
	if code.Language != "" {
		language = code.Language
	}
	node := &TipTapNode{
		Type:  string(edtypes.TypeCodeBlock),
		Attrs: withExtra(code.Attrs, map[string]any{"language": language}),
	}
	if code.Content != "" {
		text := code.Content
		node.Content = []TipTapNode{{Type: string(edtypes.TypeText), Text: &text}}
	}
	return node
}

func serializeTable(table *edtypes.Table) *TipTapNode {
	node := &TipTapNode{Type: string(edtypes.TypeTable), Attrs: withExtra(table.Attrs, nil)}
	for _, row := range table.Rows {
		rowNode := TipTapNode{Type: string(edtypes.TypeTableRow), Attrs: withExtra(row.Attrs, nil)}
		for _, cell := range row.Cells {
			rowNode.Content = append(rowNode.Content, serializeTableCell(cell))
		}
		node.Content = append(node.Content, rowNode)
	}
	return node
}

func serializeTableCell(cell edtypes.TableCell) TipTapNode {
	t := edtypes.TypeTableCell
	if cell.Header {
		t = edtypes.TypeTableHeader
	}

	var colwidth any
	if cell.ColWidth != nil {
		colwidth = cell.ColWidth
	}

	return TipTapNode{
		Type: string(t),
		Attrs: withExtra(cell.Attrs, map[string]any{
			"colspan":  max(cell.ColSpan, 1),
			"rowspan":  max(cell.RowSpan, 1),
			"colwidth": colwidth,
		}),
		Content: serializeBlocks(cell.Content),
	}
}

func serializeImage(img *edtypes.Image) *TipTapNode {
	attrs := map[string]any{"src": img.Src}
	if img.Alt != "" {
		attrs["alt"] = img.Alt
	}
	if img.Title != "" {
		attrs["title"] = img.Title
	}
	return &TipTapNode{Type: string(edtypes.TypeImage), Attrs: withExtra(img.Attrs, attrs)}
}

// serializeMarks сохраняет порядок меток как в документе.
func serializeMarks(marks []edtypes.Mark) []TipTapMark {
	if len(marks) == 0 {
		return nil
	}
	res := make([]TipTapMark, 0, len(marks))
	for _, m := range marks {
		mark := TipTapMark{Type: string(m.Type)}
		switch m.Type {
		case edtypes.MarkLink:
			known := map[string]any{"href": m.Href}
			if m.Target != "" {
				known["target"] = m.Target
			}
			if m.Rel != "" {
				known["rel"] = m.Rel
			}
			mark.Attrs = withExtra(m.Attrs, known)
		case edtypes.MarkTextSize:
			var size any
			if m.Size != "" {
				size = m.Size
			}
			mark.Attrs = withExtra(m.Attrs, map[string]any{"size": size})
		default:
			mark.Attrs = withExtra(m.Attrs, nil)
		}
		res = append(res, mark)
	}
	return res
}

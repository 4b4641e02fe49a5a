package tiptap

import (
	"strings"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
)

func (s *parseState) parseParagraph(node TipTapNode, path string, depth int) (edtypes.Block, error) {
	content, err := s.parseInlines(node.Content, path, depth)
	if err != nil {
		return nil, err
	}
	return &edtypes.Paragraph{Content: content, Attrs: extraAttrs(node.Attrs)}, nil
}

// parseHeading парсит заголовок. В мягком режиме уровень приводится к диапазону 2..4.
func (s *parseState) parseHeading(node TipTapNode, path string, depth int) (edtypes.Block, error) {
	level, ok := lookupInt(node.Attrs, "level")
	if !ok || level < edtypes.MinHeadingLevel || level > edtypes.MaxHeadingLevel {
		if err := s.reject(attrPath(path, "level"), "heading level must be 2, 3 or 4"); err != nil {
			return nil, err
		}
		level = clampHeadingLevel(level, ok)
	}

	content, err := s.parseInlines(node.Content, path, depth)
	if err != nil {
		return nil, err
	}
	return &edtypes.Heading{Level: level, Content: content, Attrs: extraAttrs(node.Attrs, "level")}, nil
}

func clampHeadingLevel(level int, ok bool) int {
	switch {
	case !ok, level < edtypes.MinHeadingLevel:
		return edtypes.MinHeadingLevel
	case level > edtypes.MaxHeadingLevel:
		return edtypes.MaxHeadingLevel
	default:
		return level
	}
}

func (s *parseState) parseBlockquote(node TipTapNode, path string, depth int) (edtypes.Block, error) {
	content, err := s.parseBlocks(node.Content, path, depth)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		if err := s.reject(path, "blockquote must contain at least one block"); err != nil {
			return nil, err
		}
	}
	return &edtypes.Quote{Content: content, Attrs: extraAttrs(node.Attrs)}, nil
}

// parseList парсит маркированный и нумерованный списки.
func (s *parseState) parseList(node TipTapNode, path string, depth int) (edtypes.Block, error) {
	list := &edtypes.List{Ordered: canonicalType(node.Type) == string(edtypes.TypeOrderedList)}

	if list.Ordered {
		if v, exists := node.Attrs["start"]; exists && v != nil {
			start, ok := toInt(v)
			if !ok {
				if err := s.reject(attrPath(path, "start"), "start must be an integer"); err != nil {
					return nil, err
				}
				start = 1
			}
			list.Start = start
		}
		list.Attrs = extraAttrs(node.Attrs, "start")
	} else {
		list.Attrs = extraAttrs(node.Attrs)
	}

	for i, child := range node.Content {
		itemPath := childPath(path, "content", i)
		if err := s.enter(itemPath, depth+1); err != nil {
			return nil, err
		}
		if canonicalType(child.Type) != string(edtypes.TypeListItem) {
			if err := s.reject(itemPath, "%s must contain only listItem, got %q", node.Type, child.Type); err != nil {
				return nil, err
			}
			continue
		}

		blocks, err := s.parseBlocks(child.Content, itemPath, depth+1)
		if err != nil {
			return nil, err
		}
		if len(blocks) == 0 {
			if err := s.reject(itemPath, "listItem must contain at least one block"); err != nil {
				return nil, err
			}
		}
		list.Items = append(list.Items, edtypes.ListItem{Content: blocks, Attrs: extraAttrs(child.Attrs)})
	}

	if len(list.Items) == 0 {
		if err := s.reject(path, "%s must contain at least one listItem", node.Type); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// parseCodeBlock склеивает текстовые узлы блока кода. Метки внутри кода запрещены.
func (s *parseState) parseCodeBlock(node TipTapNode, path string, depth int) (edtypes.Block, error) {
	language := ""
	if v, exists := node.Attrs["language"]; exists && v != nil {
		str, ok := v.(string)
		if !ok {
			if err := s.reject(attrPath(path, "language"), "language must be a string"); err != nil {
				return nil, err
			}
		}
		language = str
	}

	var sb strings.Builder
	for i, child := range node.Content {
		textPath := childPath(path, "content", i)
		if err := s.enter(textPath, depth+1); err != nil {
			return nil, err
		}
		if child.Type != string(edtypes.TypeText) {
			if err := s.reject(textPath, "codeBlock must contain only text, got %q", child.Type); err != nil {
				return nil, err
			}
			continue
		}
		text, err := s.parseText(child, textPath, false)
		if err != nil {
			return nil, err
		}
		if text != nil {
			sb.WriteString(text.Content)
		}
	}

	return &edtypes.Code{
		Language: language,
		Content:  sb.String(),
		Attrs:    extraAttrs(node.Attrs, "language"),
	}, nil
}

func (s *parseState) parseHorizontalRule(node TipTapNode, path string) (edtypes.Block, error) {
	if err := s.leafContent(node, path); err != nil {
		return nil, err
	}
	return &edtypes.HorizontalRule{Attrs: extraAttrs(node.Attrs)}, nil
}

// parseTable парсит таблицу. Строки допустимы только в таблице, ячейки только в строке.
func (s *parseState) parseTable(node TipTapNode, path string, depth int) (edtypes.Block, error) {
	table := &edtypes.Table{Attrs: extraAttrs(node.Attrs)}

	for i, rowNode := range node.Content {
		rowPath := childPath(path, "content", i)
		if err := s.enter(rowPath, depth+1); err != nil {
			return nil, err
		}
		if canonicalType(rowNode.Type) != string(edtypes.TypeTableRow) {
			if err := s.reject(rowPath, "table must contain only tableRow, got %q", rowNode.Type); err != nil {
				return nil, err
			}
			continue
		}

		row := edtypes.TableRow{Attrs: extraAttrs(rowNode.Attrs)}
		for j, cellNode := range rowNode.Content {
			cellPath := childPath(rowPath, "content", j)
			if err := s.enter(cellPath, depth+2); err != nil {
				return nil, err
			}
			cell, err := s.parseTableCell(cellNode, cellPath, depth+2)
			if err != nil {
				return nil, err
			}
			if cell != nil {
				row.Cells = append(row.Cells, *cell)
			}
		}
		if len(row.Cells) == 0 {
			if err := s.reject(rowPath, "tableRow must contain at least one cell"); err != nil {
				return nil, err
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		if err := s.reject(path, "table must contain at least one tableRow"); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (s *parseState) parseTableCell(node TipTapNode, path string, depth int) (*edtypes.TableCell, error) {
	cell := &edtypes.TableCell{}
	switch canonicalType(node.Type) {
	case string(edtypes.TypeTableCell):
	case string(edtypes.TypeTableHeader):
		cell.Header = true
	default:
		return nil, s.reject(path, "tableRow must contain only tableCell or tableHeader, got %q", node.Type)
	}

	var err error
	if cell.ColSpan, err = s.spanAttr(node.Attrs, path, "colspan"); err != nil {
		return nil, err
	}
	if cell.RowSpan, err = s.spanAttr(node.Attrs, path, "rowspan"); err != nil {
		return nil, err
	}

	cell.ColWidth, err = lookupIntSlice(node.Attrs, "colwidth")
	if err != nil {
		if err := s.reject(attrPath(path, "colwidth"), "%v", err); err != nil {
			return nil, err
		}
	}

	cell.Content, err = s.parseBlocks(node.Content, path, depth)
	if err != nil {
		return nil, err
	}
	if len(cell.Content) == 0 {
		if err := s.reject(path, "%s must contain at least one block", node.Type); err != nil {
			return nil, err
		}
	}

	cell.Attrs = extraAttrs(node.Attrs, "colspan", "rowspan", "colwidth")
	return cell, nil
}

// spanAttr читает colspan/rowspan, по умолчанию 1.
func (s *parseState) spanAttr(attrs map[string]any, path string, key string) (int, error) {
	v, exists := attrs[key]
	if !exists || v == nil {
		return 1, nil
	}
	n, ok := toInt(v)
	if !ok || n < 1 {
		return 1, s.reject(attrPath(path, key), "%s must be a positive integer", key)
	}
	return n, nil
}

// parseImage используется и для блочного, и для строчного изображения.
func (s *parseState) parseImage(node TipTapNode, path string) (*edtypes.Image, error) {
	src, _ := lookupString(node.Attrs, "src")
	if strings.TrimSpace(src) == "" {
		return nil, s.reject(attrPath(path, "src"), "image must have src")
	}
	if err := s.leafContent(node, path); err != nil {
		return nil, err
	}
	return &edtypes.Image{
		Src:   src,
		Alt:   getAttrString(node.Attrs, "alt"),
		Title: getAttrString(node.Attrs, "title"),
		Attrs: extraAttrs(node.Attrs, "src", "alt", "title"),
	}, nil
}

func (s *parseState) parseMathBlock(node TipTapNode, path string) (edtypes.Block, error) {
	latex, err := s.mathLatex(node, path)
	if err != nil {
		return nil, err
	}
	return &edtypes.MathBlock{Latex: latex, Attrs: extraAttrs(node.Attrs, "latex")}, nil
}

func (s *parseState) parseMathInline(node TipTapNode, path string) (edtypes.Inline, error) {
	latex, err := s.mathLatex(node, path)
	if err != nil {
		return nil, err
	}
	return &edtypes.MathInline{Latex: latex, Attrs: extraAttrs(node.Attrs, "latex")}, nil
}

// mathLatex возвращает latex формулы. Пустая строка допустима, отсутствие атрибута нет.
func (s *parseState) mathLatex(node TipTapNode, path string) (string, error) {
	if err := s.leafContent(node, path); err != nil {
		return "", err
	}
	latex, ok := lookupString(node.Attrs, "latex")
	if !ok {
		return "", s.reject(attrPath(path, "latex"), "%s must have latex string", canonicalType(node.Type))
	}
	return latex, nil
}

func (s *parseState) parseHardBreak(node TipTapNode, path string) (edtypes.Inline, error) {
	if err := s.leafContent(node, path); err != nil {
		return nil, err
	}
	return &edtypes.HardBreak{Attrs: extraAttrs(node.Attrs)}, nil
}

// parseText парсит текстовый узел. Пустой текст допустим только в редакторе, в сохраненном документе это ошибка.
func (s *parseState) parseText(node TipTapNode, path string, allowMarks bool) (*edtypes.Text, error) {
	if node.Text == nil {
		return nil, s.reject(path, "text node must have text")
	}
	if *node.Text == "" {
		return nil, s.reject(path, "text node must not be empty")
	}

	text := &edtypes.Text{Content: *node.Text}
	if allowMarks {
		marks, err := s.parseMarks(node.Marks, path)
		if err != nil {
			return nil, err
		}
		text.Marks = marks
	} else if len(node.Marks) > 0 {
		if err := s.reject(path+".marks", "marks are not allowed in codeBlock"); err != nil {
			return nil, err
		}
	}
	return text, nil
}

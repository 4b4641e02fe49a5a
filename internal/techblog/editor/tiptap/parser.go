package tiptap

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
)

// DefaultMaxDepth - максимальная вложенность узлов, корневой doc имеет глубину 1.
const DefaultMaxDepth = 64

func init() {
	edtypes.TipTapParser = ParseJSON
	edtypes.TipTapSerializer = Serialize
}

// Parser настраивает разбор TipTap JSON.
type Parser struct {
	// MaxDepth - ограничение глубины, 0 = DefaultMaxDepth
	MaxDepth int
	// Coerce включает мягкий режим: нарушения схемы исправляются или узел отбрасывается.
	// Корневой тип, битый JSON и превышение глубины остаются ошибками.
	Coerce bool
}

// ParseJSON строго парсит JSON контент TipTap редактора в структуру edtypes.Document.
// Любое нарушение схемы возвращает *edtypes.SchemaViolation.
func ParseJSON(r io.Reader) (*edtypes.Document, error) {
	return Parser{}.Parse(r)
}

// ParseBytes - ParseJSON для среза байт.
func ParseBytes(data []byte) (*edtypes.Document, error) {
	return Parser{}.Parse(bytes.NewReader(data))
}

// ErrTrailingData - после документа в потоке есть еще данные.
var ErrTrailingData = errors.New("unexpected data after document")

// Parse разбирает ровно один JSON документ из r.
func (p Parser) Parse(r io.Reader) (*edtypes.Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var root TipTapNode
	if err := dec.Decode(&root); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, edtypes.Violation(typeErr.Field, "unexpected JSON %s", typeErr.Value)
		}
		// encoding/json сам ограничивает вложенность и падает раньше проверки глубины узлов
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) && strings.Contains(syntaxErr.Error(), "exceeded max depth") {
			return nil, edtypes.Violation("", "nesting depth exceeds %d", p.maxDepth())
		}
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return p.ParseNode(root)
}

func (p Parser) maxDepth() int {
	if p.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

// ParseNode преобразует уже декодированный корневой узел.
func (p Parser) ParseNode(root TipTapNode) (*edtypes.Document, error) {
	s := &parseState{coerce: p.Coerce, maxDepth: p.maxDepth()}

	if root.Type != string(edtypes.TypeDoc) {
		return nil, edtypes.Violation("type", "root node must be doc, got %q", root.Type)
	}

	content, err := s.parseBlocks(root.Content, "", 1)
	if err != nil {
		return nil, err
	}

	return &edtypes.Document{
		Content: content,
		Attrs:   extraAttrs(root.Attrs),
	}, nil
}

type parseState struct {
	coerce   bool
	maxDepth int
}

// reject фиксирует нарушение схемы. В мягком режиме возвращает nil и узел просто отбрасывается.
func (s *parseState) reject(path string, format string, args ...any) error {
	v := edtypes.Violation(path, format, args...)
	if s.coerce {
		slog.Debug("Drop invalid document node", "path", v.Path, "reason", v.Reason)
		return nil
	}
	return v
}

// enter проверяет глубину узла, ошибка возвращается в обоих режимах.
func (s *parseState) enter(path string, depth int) error {
	if depth > s.maxDepth {
		return edtypes.Violation(path, "nesting depth exceeds %d", s.maxDepth)
	}
	return nil
}

// parseBlocks парсит содержимое блочного контейнера. parentDepth - глубина контейнера.
func (s *parseState) parseBlocks(nodes []TipTapNode, path string, parentDepth int) ([]edtypes.Block, error) {
	var res []edtypes.Block
	for i, node := range nodes {
		block, err := s.parseBlock(node, childPath(path, "content", i), parentDepth+1)
		if err != nil {
			return nil, err
		}
		if block != nil {
			res = append(res, block)
		}
	}
	return res, nil
}

// parseBlock парсит отдельную блочную ноду. nil без ошибки означает, что узел отброшен.
func (s *parseState) parseBlock(node TipTapNode, path string, depth int) (edtypes.Block, error) {
	if err := s.enter(path, depth); err != nil {
		return nil, err
	}

	t := edtypes.NodeType(canonicalType(node.Type))
	switch t {
	case edtypes.TypeParagraph:
		return s.parseParagraph(node, path, depth)
	case edtypes.TypeHeading:
		return s.parseHeading(node, path, depth)
	case edtypes.TypeBlockquote:
		return s.parseBlockquote(node, path, depth)
	case edtypes.TypeBulletList, edtypes.TypeOrderedList:
		return s.parseList(node, path, depth)
	case edtypes.TypeCodeBlock:
		return s.parseCodeBlock(node, path, depth)
	case edtypes.TypeHorizontalRule:
		return s.parseHorizontalRule(node, path)
	case edtypes.TypeTable:
		return s.parseTable(node, path, depth)
	case edtypes.TypeImage:
		img, err := s.parseImage(node, path)
		if img == nil {
			return nil, err
		}
		return img, nil
	case edtypes.TypeMathBlock:
		return s.parseMathBlock(node, path)
	case edtypes.TypeText, edtypes.TypeHardBreak, edtypes.TypeMathInline:
		return nil, s.reject(path, "inline node %s is not allowed at block level", t)
	case edtypes.TypeListItem, edtypes.TypeTableRow, edtypes.TypeTableCell, edtypes.TypeTableHeader, edtypes.TypeDoc:
		return nil, s.reject(path, "node %s is not allowed here", t)
	default:
		return nil, s.reject(path, "unknown node type %q", node.Type)
	}
}

// parseInlines парсит содержимое абзаца или заголовка.
func (s *parseState) parseInlines(nodes []TipTapNode, path string, parentDepth int) ([]edtypes.Inline, error) {
	var res []edtypes.Inline
	for i, node := range nodes {
		inline, err := s.parseInline(node, childPath(path, "content", i), parentDepth+1)
		if err != nil {
			return nil, err
		}
		if inline != nil {
			res = append(res, inline)
		}
	}
	return res, nil
}

func (s *parseState) parseInline(node TipTapNode, path string, depth int) (edtypes.Inline, error) {
	if err := s.enter(path, depth); err != nil {
		return nil, err
	}

	t := edtypes.NodeType(canonicalType(node.Type))
	switch t {
	case edtypes.TypeText:
		text, err := s.parseText(node, path, true)
		if text == nil {
			return nil, err
		}
		return text, nil
	case edtypes.TypeHardBreak:
		return s.parseHardBreak(node, path)
	case edtypes.TypeMathInline:
		return s.parseMathInline(node, path)
	case edtypes.TypeImage:
		img, err := s.parseImage(node, path)
		if img == nil {
			return nil, err
		}
		return img, nil
	case edtypes.TypeParagraph, edtypes.TypeHeading, edtypes.TypeBlockquote, edtypes.TypeBulletList,
		edtypes.TypeOrderedList, edtypes.TypeCodeBlock, edtypes.TypeHorizontalRule, edtypes.TypeTable,
		edtypes.TypeMathBlock, edtypes.TypeListItem, edtypes.TypeTableRow, edtypes.TypeTableCell,
		edtypes.TypeTableHeader, edtypes.TypeDoc:
		return nil, s.reject(path, "block node %s is not allowed in inline content", t)
	default:
		return nil, s.reject(path, "unknown node type %q", node.Type)
	}
}

// leafContent проверяет, что у листового узла нет дочерних.
func (s *parseState) leafContent(node TipTapNode, path string) error {
	if len(node.Content) > 0 {
		return s.reject(path, "%s must not have content", node.Type)
	}
	return nil
}

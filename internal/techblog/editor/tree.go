package editor

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
	policy "github.com/aisa-it/techblog/internal/techblog/redactor-policy"
)

// Порядок вложенности меток: первая в списке - внешняя
var markRank = map[edtypes.MarkType]int{
	edtypes.MarkLink:      0,
	edtypes.MarkBold:      1,
	edtypes.MarkItalic:    2,
	edtypes.MarkStrike:    3,
	edtypes.MarkUnderline: 4,
	edtypes.MarkCode:      5,
	edtypes.MarkHighlight: 6,
	edtypes.MarkTextSize:  7,
}

var allowedLinkSchemes = map[string]struct{}{
	"http":   {},
	"https":  {},
	"mailto": {},
}

type treeBuilder struct {
	r        *Renderer
	maxDepth int
}

// buildTree строит HTML дерево документа внутри корневого body.
func (r *Renderer) buildTree(doc *edtypes.Document) (*html.Node, error) {
	b := &treeBuilder{r: r, maxDepth: r.maxDepth()}
	root := element(atom.Body)
	if err := b.blocks(root, doc.Content, 1); err != nil {
		return nil, err
	}
	return root, nil
}

func (b *treeBuilder) enter(depth int) error {
	if depth > b.maxDepth {
		return fmt.Errorf("nesting depth exceeds %d", b.maxDepth)
	}
	return nil
}

// blocks добавляет блочные узлы в parent. parentDepth - глубина контейнера.
func (b *treeBuilder) blocks(parent *html.Node, blocks []edtypes.Block, parentDepth int) error {
	depth := parentDepth + 1
	if len(blocks) > 0 {
		if err := b.enter(depth); err != nil {
			return err
		}
	}

	for _, block := range blocks {
		switch n := block.(type) {
		case *edtypes.Paragraph:
			p := appendElement(parent, atom.P)
			if err := b.inlines(p, n.Content, depth); err != nil {
				return err
			}

		case *edtypes.Heading:
			h := appendElement(parent, headingAtom(n.Level))
			if err := b.inlines(h, n.Content, depth); err != nil {
				return err
			}

		case *edtypes.Quote:
			q := appendElement(parent, atom.Blockquote)
			if err := b.blocks(q, n.Content, depth); err != nil {
				return err
			}

		case *edtypes.List:
			if err := b.list(parent, n, depth); err != nil {
				return err
			}

		case *edtypes.Code:
			pre := appendElement(parent, atom.Pre)
			code := appendElement(pre, atom.Code)
			if n.Language != "" {
				setAttr(code, "class", "language-"+n.Language)
			}
			if n.Content != "" {
				code.AppendChild(textNode(n.Content))
			}

		case *edtypes.HorizontalRule:
			hr := appendElement(parent, atom.Hr)
			setAttr(hr, "class", policy.HorizontalRuleClass)

		case *edtypes.Table:
			if err := b.table(parent, n, depth); err != nil {
				return err
			}

		case *edtypes.Image:
			b.image(parent, n)

		case *edtypes.MathBlock:
			div := appendElement(parent, atom.Div)
			setAttr(div, "data-type", "block-math")
			setAttr(div, "data-latex", n.Latex)
			b.math(div, n.Latex, true)

		case nil:
		default:
			// Закрытая схема: прочие узлы не выводятся
		}
	}
	return nil
}

func (b *treeBuilder) list(parent *html.Node, list *edtypes.List, depth int) error {
	tag := atom.Ul
	if list.Ordered {
		tag = atom.Ol
	}
	el := appendElement(parent, tag)
	if list.Ordered && list.Start != 0 && list.Start != 1 {
		setAttr(el, "start", strconv.Itoa(list.Start))
	}

	if len(list.Items) > 0 {
		if err := b.enter(depth + 1); err != nil {
			return err
		}
	}
	for _, item := range list.Items {
		li := appendElement(el, atom.Li)
		if err := b.blocks(li, item.Content, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (b *treeBuilder) table(parent *html.Node, table *edtypes.Table, depth int) error {
	el := appendElement(parent, atom.Table)
	body := appendElement(el, atom.Tbody)

	for _, row := range table.Rows {
		if err := b.enter(depth + 1); err != nil {
			return err
		}
		tr := appendElement(body, atom.Tr)
		for _, cell := range row.Cells {
			if err := b.enter(depth + 2); err != nil {
				return err
			}
			tag := atom.Td
			if cell.Header {
				tag = atom.Th
			}
			td := appendElement(tr, tag)
			setAttr(td, "colspan", strconv.Itoa(max(cell.ColSpan, 1)))
			setAttr(td, "rowspan", strconv.Itoa(max(cell.RowSpan, 1)))
			if err := b.blocks(td, cell.Content, depth+2); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *treeBuilder) image(parent *html.Node, img *edtypes.Image) {
	if strings.TrimSpace(img.Src) == "" {
		return
	}
	el := appendElement(parent, atom.Img)
	setAttr(el, "src", img.Src)
	setAttr(el, "alt", img.Alt)
	if img.Title != "" {
		setAttr(el, "title", img.Title)
	}
	setAttr(el, "class", policy.ImageClass)
}

// math добавляет отрендеренную формулу. Разметка бэкенда вставляется как есть и очищается политикой в конце.
func (b *treeBuilder) math(parent *html.Node, latex string, display bool) {
	out := b.r.math().Render(latex, display)
	if out == "" {
		return
	}
	parent.AppendChild(&html.Node{Type: html.RawNode, Data: out})
}

type openMark struct {
	mark edtypes.Mark
	el   *html.Node
}

// inlines добавляет строчные узлы. Соседние тексты с общими метками разделяют обертки.
func (b *treeBuilder) inlines(parent *html.Node, inlines []edtypes.Inline, parentDepth int) error {
	if len(inlines) > 0 {
		if err := b.enter(parentDepth + 1); err != nil {
			return err
		}
	}

	var open []openMark
	for _, inline := range inlines {
		var marks []edtypes.Mark
		if t, ok := inline.(*edtypes.Text); ok {
			if t.Content == "" {
				continue
			}
			marks = renderableMarks(t.Marks)
		}

		keep := 0
		for keep < len(open) && keep < len(marks) && sameMark(open[keep].mark, marks[keep]) {
			keep++
		}
		open = open[:keep]

		target := parent
		if keep > 0 {
			target = open[keep-1].el
		}
		for _, m := range marks[keep:] {
			el := markElement(m)
			target.AppendChild(el)
			open = append(open, openMark{mark: m, el: el})
			target = el
		}

		switch n := inline.(type) {
		case *edtypes.Text:
			target.AppendChild(textNode(n.Content))
		case *edtypes.HardBreak:
			appendElement(target, atom.Br)
		case *edtypes.MathInline:
			span := appendElement(target, atom.Span)
			setAttr(span, "data-type", "inline-math")
			setAttr(span, "data-latex", n.Latex)
			b.math(span, n.Latex, false)
		case *edtypes.Image:
			b.image(target, n)
		}
	}
	return nil
}

// renderableMarks сортирует метки по рангу, убирает повторы и метки без обертки.
func renderableMarks(marks []edtypes.Mark) []edtypes.Mark {
	res := make([]edtypes.Mark, 0, len(marks))
	seen := make(map[edtypes.MarkType]struct{}, len(marks))
	for _, m := range marks {
		if _, ok := markRank[m.Type]; !ok {
			continue
		}
		if _, dup := seen[m.Type]; dup {
			continue
		}
		if m.Type == edtypes.MarkTextSize && m.Size != edtypes.TextSizeSmall {
			continue
		}
		if m.Type == edtypes.MarkLink && !safeHref(m.Href) {
			continue
		}
		seen[m.Type] = struct{}{}
		res = append(res, m)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return markRank[res[i].Type] < markRank[res[j].Type]
	})
	return res
}

func sameMark(a, b edtypes.Mark) bool {
	return a.Type == b.Type && a.Href == b.Href && a.Size == b.Size
}

func markElement(m edtypes.Mark) *html.Node {
	switch m.Type {
	case edtypes.MarkLink:
		a := element(atom.A)
		setAttr(a, "href", m.Href)
		setAttr(a, "target", "_blank")
		setAttr(a, "rel", policy.LinkRel)
		return a
	case edtypes.MarkBold:
		return element(atom.Strong)
	case edtypes.MarkItalic:
		return element(atom.Em)
	case edtypes.MarkStrike:
		return element(atom.S)
	case edtypes.MarkUnderline:
		return element(atom.U)
	case edtypes.MarkCode:
		return element(atom.Code)
	case edtypes.MarkHighlight:
		return element(atom.Mark)
	default:
		span := element(atom.Span)
		setAttr(span, "data-size", edtypes.TextSizeSmall)
		setAttr(span, "class", policy.TextSizeSmallClass)
		return span
	}
}

// safeHref допускает относительные ссылки и схемы http, https, mailto.
func safeHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return true
	}
	_, ok := allowedLinkSchemes[strings.ToLower(u.Scheme)]
	return ok
}

func headingAtom(level int) atom.Atom {
	switch {
	case level <= edtypes.MinHeadingLevel:
		return atom.H2
	case level == 3:
		return atom.H3
	default:
		return atom.H4
	}
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func appendElement(parent *html.Node, a atom.Atom) *html.Node {
	el := element(a)
	parent.AppendChild(el)
	return el
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

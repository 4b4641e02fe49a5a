package editor

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Старые статьи хранят формулы прямо в тексте между $$ и $.
// Блочный шаблон применяется строго раньше строчного, иначе $...$ совпадет внутри $$...$$.
var (
	legacyBlockMathRegexp  = regexp.MustCompile(`\$\$([\s\S]+?)\$\$`)
	legacyInlineMathRegexp = regexp.MustCompile(`\$([^$]+?)\$`)
)

// renderLegacyMath заменяет $$...$$ и затем $...$ в тексте готового дерева отрендеренными формулами.
// Значения атрибутов и уже вставленные формулы не затрагиваются.
func (r *Renderer) renderLegacyMath(root *html.Node) {
	mergeTextNodes(root)
	r.replaceLegacyMath(root, legacyBlockMathRegexp, true)
	r.replaceLegacyMath(root, legacyInlineMathRegexp, false)
}

func (r *Renderer) replaceLegacyMath(root *html.Node, re *regexp.Regexp, display bool) {
	for _, n := range textNodesWith(root, "$") {
		matches := re.FindAllStringSubmatchIndex(n.Data, -1)
		if len(matches) == 0 {
			continue
		}

		parent := n.Parent
		last := 0
		for _, m := range matches {
			if m[0] > last {
				parent.InsertBefore(textNode(n.Data[last:m[0]]), n)
			}
			if out := r.math().Render(n.Data[m[2]:m[3]], display); out != "" {
				parent.InsertBefore(&html.Node{Type: html.RawNode, Data: out}, n)
			}
			last = m[1]
		}
		if last < len(n.Data) {
			parent.InsertBefore(textNode(n.Data[last:]), n)
		}
		parent.RemoveChild(n)
	}
}

// mergeTextNodes склеивает соседние текстовые узлы, чтобы формула не разрывалась между ними.
func mergeTextNodes(root *html.Node) {
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			for c.Type == html.TextNode && c.NextSibling != nil && c.NextSibling.Type == html.TextNode {
				next := c.NextSibling
				c.Data += next.Data
				n.RemoveChild(next)
			}
			if c.Type == html.ElementNode {
				stack = append(stack, c)
			}
		}
	}
}

// textNodesWith возвращает текстовые узлы с подстрокой sub в порядке документа.
func textNodesWith(root *html.Node, sub string) []*html.Node {
	var res []*html.Node
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.TextNode && strings.Contains(n.Data, sub) {
			res = append(res, n)
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return res
}

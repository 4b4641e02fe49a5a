package editor

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
)

const maxSlugLength = 80

// Все, кроме латиницы в нижнем регистре, цифр, кандзи, хираганы и катаканы
var slugInvalidRegexp = regexp.MustCompile(`[^a-z0-9\x{4e00}-\x{9fa0}\x{3041}-\x{3093}\x{30a1}-\x{30f3}\x{30fc}]+`)

// Slugify строит якорь из текста заголовка.
func Slugify(text string) string {
	s := slugInvalidRegexp.ReplaceAllString(strings.ToLower(text), "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSuffix(s, "-")
	if utf8.RuneCountInString(s) > maxSlugLength {
		s = string([]rune(s)[:maxSlugLength])
	}
	if s == "" {
		return "heading"
	}
	return s
}

// slugSet выдает уникальные якоря в пределах одного документа: base, base-2, base-3...
type slugSet struct {
	counts map[string]int
	taken  map[string]struct{}
}

func newSlugSet() *slugSet {
	return &slugSet{counts: make(map[string]int), taken: make(map[string]struct{})}
}

func (s *slugSet) unique(base string) string {
	for {
		s.counts[base]++
		id := base
		if n := s.counts[base]; n > 1 {
			id = base + "-" + strconv.Itoa(n)
		}
		if _, ok := s.taken[id]; !ok {
			s.taken[id] = struct{}{}
			return id
		}
	}
}

// assignHeadingIDs проставляет id всем h2 в порядке документа и возвращает оглавление.
// Заголовки 3 и 4 уровня в оглавление не попадают.
func assignHeadingIDs(root *html.Node) []edtypes.HeadingAnchor {
	headings := []edtypes.HeadingAnchor{}
	slugs := newSlugSet()

	// Обход в глубину без рекурсии
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.ElementNode && n.DataAtom == atom.H2 {
			raw := textContent(n)
			if raw == "" {
				raw = "section-" + strconv.Itoa(len(headings)+1)
			}
			text := strings.TrimSpace(raw)
			id := slugs.unique(Slugify(text))
			setAttr(n, "id", id)
			headings = append(headings, edtypes.HeadingAnchor{ID: id, Text: text, Level: 2})
			continue
		}

		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return headings
}

// textContent собирает текст узла. Отрендеренные формулы (RawNode) пропускаются.
func textContent(n *html.Node) string {
	var sb strings.Builder
	stack := []*html.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type == html.TextNode {
			sb.WriteString(cur.Data)
		}
		for c := cur.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return sb.String()
}

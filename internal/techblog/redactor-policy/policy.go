// Определяет политики безопасности для HTML статей. Отрендеренный документ проходит через ArticlePolicy перед отдачей клиенту,
// поэтому наружу попадают только элементы и атрибуты закрытой схемы документа и MathML формул.
//
// Основные возможности:
//   - Белый список элементов схемы (абзацы, заголовки, списки, таблицы, изображения, код, метки).
//   - Фиксированные классы оформления и ограничение значений атрибутов регулярными выражениями.
//   - Ссылки только со схемами http, https, mailto или относительные.
//   - MathML элементы и их атрибуты для статических формул.
//   - Извлечение текста для анонсов (Excerpt), формулы заменяются исходным LaTeX.
package policy

import (
	"container/list"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/microcosm-cc/bluemonday"
)

// Фиксированные классы, которые проставляет рендерер
const (
	ImageClass          = "my-6 overflow-hidden rounded-xl border bg-slate-50"
	HorizontalRuleClass = "my-6 border-t border-slate-200"
	TextSizeSmallClass  = "text-size-s"
	LinkRel             = "noopener noreferrer nofollow"
)

var mathElements = []string{
	"math", "semantics", "annotation", "annotation-xml",
	"mrow", "mi", "mn", "mo", "ms", "mtext", "mspace",
	"msup", "msub", "msubsup", "mfrac", "msqrt", "mroot",
	"mover", "munder", "munderover", "mmultiscripts", "mprescripts", "none",
	"mtable", "mtr", "mtd", "mlabeledtr",
	"mstyle", "mpadded", "mphantom", "menclose", "merror",
}

var StripTagsPolicy *bluemonday.Policy = bluemonday.StrictPolicy()
var ArticlePolicy *bluemonday.Policy = bluemonday.NewPolicy()

func init() {
	slugRegexp := regexp.MustCompile(`^[a-z0-9\x{4e00}-\x{9fa0}\x{3041}-\x{3093}\x{30a1}-\x{30f3}\x{30fc}-]+$`)
	languageClassRegexp := regexp.MustCompile(`^language-[A-Za-z0-9_+#.-]+$`)
	spanClassRegexp := regexp.MustCompile(`^(` + TextSizeSmallClass + `|math-error|math-error math-error-display)$`)
	numberRegexp := regexp.MustCompile(`^\d+$`)
	mathSizeRegexp := regexp.MustCompile(`^-?(\d+(\.\d+)?|\.\d+)(em|ex|px|pt|mu|%)?$`)
	mathWordRegexp := regexp.MustCompile(`^[A-Za-z0-9 .:_#-]*$`)

	StripTagsPolicy.AddSpaceWhenStrippingTag(true)

	ArticlePolicy.AllowStandardURLs()

	ArticlePolicy.AllowElements(
		"p", "h2", "h3", "h4", "blockquote", "ul", "ol", "li",
		"pre", "code", "br", "hr", "img",
		"table", "tbody", "tr", "td", "th",
		"strong", "em", "s", "u", "mark", "a", "span", "div",
	)

	ArticlePolicy.AllowAttrs("id").Matching(slugRegexp).OnElements("h2")
	ArticlePolicy.AllowAttrs("start").Matching(numberRegexp).OnElements("ol")
	ArticlePolicy.AllowAttrs("class").Matching(languageClassRegexp).OnElements("code")
	ArticlePolicy.AllowAttrs("class").Matching(regexp.MustCompile(`^`+HorizontalRuleClass+`$`)).OnElements("hr")
	ArticlePolicy.AllowAttrs("colspan", "rowspan").Matching(numberRegexp).OnElements("td", "th")

	ArticlePolicy.AllowAttrs("src", "alt", "title").OnElements("img")
	ArticlePolicy.AllowAttrs("class").Matching(regexp.MustCompile(`^`+ImageClass+`$`)).OnElements("img")

	ArticlePolicy.AllowAttrs("href").OnElements("a")
	ArticlePolicy.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	ArticlePolicy.AllowAttrs("rel").Matching(regexp.MustCompile(`^`+LinkRel+`$`)).OnElements("a")

	ArticlePolicy.AllowAttrs("class").Matching(spanClassRegexp).OnElements("span")
	ArticlePolicy.AllowAttrs("data-size").Matching(regexp.MustCompile(`^s$`)).OnElements("span")
	ArticlePolicy.AllowAttrs("data-type").Matching(regexp.MustCompile(`^inline-math$`)).OnElements("span")
	ArticlePolicy.AllowAttrs("data-type").Matching(regexp.MustCompile(`^block-math$`)).OnElements("div")
	ArticlePolicy.AllowAttrs("data-latex").OnElements("span", "div")

	// MathML
	ArticlePolicy.AllowElements(mathElements...)
	ArticlePolicy.AllowNoAttrs().OnElements(mathElements...)
	ArticlePolicy.AllowAttrs("xmlns").Matching(regexp.MustCompile(`^http://www\.w3\.org/1998/Math/MathML$`)).OnElements("math")
	ArticlePolicy.AllowAttrs("display").Matching(regexp.MustCompile(`^(block|inline)$`)).OnElements("math")
	ArticlePolicy.AllowAttrs("encoding").Matching(regexp.MustCompile(`^application/x-tex$`)).OnElements("annotation")
	ArticlePolicy.AllowAttrs("mathvariant", "displaystyle", "scriptlevel", "class").Matching(mathWordRegexp).OnElements(mathElements...)
	ArticlePolicy.AllowAttrs("stretchy", "fence", "separator", "form", "largeop", "movablelimits", "accent", "accentunder", "symmetric").
		Matching(regexp.MustCompile(`^(true|false|prefix|infix|postfix)$`)).OnElements("mo", "mover", "munder", "munderover")
	ArticlePolicy.AllowAttrs("width", "height", "depth", "lspace", "rspace", "voffset", "minsize", "maxsize", "linethickness").
		Matching(mathSizeRegexp).OnElements("mspace", "mpadded", "mo", "mfrac")
	ArticlePolicy.AllowAttrs("columnalign", "rowalign", "rowspacing", "columnspacing", "columnlines", "rowlines").
		Matching(mathWordRegexp).OnElements("mtable", "mtr", "mtd")
	ArticlePolicy.AllowAttrs("notation").Matching(mathWordRegexp).OnElements("menclose")
}

// Sanitize очищает отрендеренный HTML статьи.
func Sanitize(htmlContent string) string {
	return ArticlePolicy.Sanitize(htmlContent)
}

// Excerpt возвращает текст HTML фрагмента не длиннее limit символов (limit <= 0 - без ограничения).
// Формулы заменяются исходным LaTeX из data-latex.
func Excerpt(htmlContent string, limit int) string {
	if htmlContent == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return strings.TrimSpace(StripTagsPolicy.Sanitize(htmlContent))
	}

	queue := list.New()
	queue.PushBack(doc)

	for queue.Len() > 0 {
		element := queue.Front()
		queue.Remove(element)
		node := element.Value.(*html.Node)

		var next *html.Node

		for child := node.FirstChild; child != nil; child = next {
			next = child.NextSibling
			if child.Type == html.ElementNode && isMathWrapper(child) {
				processMathNode(child)
			} else {
				if child.FirstChild != nil {
					queue.PushBack(child)
				}
			}
		}
	}

	var result strings.Builder
	html.Render(&result, doc)

	text := strings.Join(strings.Fields(html.UnescapeString(StripTagsPolicy.Sanitize(result.String()))), " ")
	return truncate(text, limit)
}

func isMathWrapper(node *html.Node) bool {
	for _, attr := range node.Attr {
		if attr.Key == "data-type" && (attr.Val == "inline-math" || attr.Val == "block-math") {
			return true
		}
	}
	return false
}

func processMathNode(node *html.Node) {
	var latex string
	for _, attr := range node.Attr {
		if attr.Key == "data-latex" {
			latex = attr.Val
		}
	}

	textNode := &html.Node{
		Type: html.TextNode,
		Data: " " + latex + " ",
	}

	node.Parent.InsertBefore(textNode, node)
	node.Parent.RemoveChild(node)
}

func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

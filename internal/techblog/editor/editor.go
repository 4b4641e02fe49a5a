// Пакет editor рендерит документы статей (TipTap JSON) в безопасный HTML для публичной страницы.
//
// Основные возможности:
//   - Принимает документ в любом виде: JSON строка, байты, map или уже разобранный edtypes.Document.
//   - Строит дерево x/net/html по фиксированному соответствию узлов и меток элементам.
//   - Рендерит формулы в MathML, в том числе старые $$...$$ и $...$ вставки в тексте.
//   - Проставляет id заголовкам второго уровня и возвращает оглавление.
//   - Никогда не паникует и не возвращает ошибку: при сбое результат пустой с флагом Degraded.
package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/html"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
	"github.com/aisa-it/techblog/internal/techblog/editor/mathml"
	"github.com/aisa-it/techblog/internal/techblog/editor/tiptap"
	policy "github.com/aisa-it/techblog/internal/techblog/redactor-policy"
)

// RenderTotal считает рендеры документов по результату (ok, degraded). Регистрируется сервером.
var RenderTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "techblog",
	Name:      "render_total",
	Help:      "Total count of rendered article documents",
}, []string{"result"})

var errUnsupportedContent = errors.New("unsupported content")

// Result - результат рендера документа.
type Result struct {
	HTML     string                  `json:"html"`
	Headings []edtypes.HeadingAnchor `json:"headings"`
	// Degraded - документ не удалось отрендерить, HTML пустой
	Degraded bool `json:"degraded"`
}

func emptyResult() Result {
	return Result{Headings: []edtypes.HeadingAnchor{}}
}

// Renderer - настраиваемый рендерер. Нулевое значение готово к работе.
// Не хранит состояния между вызовами, безопасен для параллельного использования.
type Renderer struct {
	// MaxDepth - ограничение вложенности, 0 = tiptap.DefaultMaxDepth
	MaxDepth int
	// Math - рендерер формул, nil = mathml.Default
	Math mathml.Renderer
	// Policy - политика очистки итогового HTML, nil = policy.ArticlePolicy
	Policy *bluemonday.Policy
}

var defaultRenderer = &Renderer{}

// Render рендерит документ рендерером по умолчанию.
func Render(content any) Result {
	return defaultRenderer.Render(content)
}

// Render рендерит content в HTML и оглавление. Некорректный ввод дает пустой результат.
func (r *Renderer) Render(content any) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Render document panic", "panic", rec)
			res = r.degrade(fmt.Errorf("panic: %v", rec))
		}
	}()

	doc, err := r.normalize(content)
	if err != nil {
		return r.degrade(err)
	}
	if doc == nil {
		RenderTotal.WithLabelValues("ok").Inc()
		return emptyResult()
	}

	root, err := r.buildTree(doc)
	if err != nil {
		return r.degrade(err)
	}

	headings := assignHeadingIDs(root)
	r.renderLegacyMath(root)

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return r.degrade(err)
		}
	}

	out := r.policy().Sanitize(buf.String())

	RenderTotal.WithLabelValues("ok").Inc()
	return Result{HTML: out, Headings: headings}
}

func (r *Renderer) degrade(err error) Result {
	slog.Debug("Render document degraded", "err", err)
	RenderTotal.WithLabelValues("degraded").Inc()
	res := emptyResult()
	res.Degraded = true
	return res
}

func (r *Renderer) math() mathml.Renderer {
	if r.Math == nil {
		return mathml.Default
	}
	return r.Math
}

func (r *Renderer) policy() *bluemonday.Policy {
	if r.Policy == nil {
		return policy.ArticlePolicy
	}
	return r.Policy
}

func (r *Renderer) maxDepth() int {
	if r.MaxDepth <= 0 {
		return tiptap.DefaultMaxDepth
	}
	return r.MaxDepth
}

// normalize приводит content к документу. nil документ без ошибки - пустое содержимое.
func (r *Renderer) normalize(content any) (*edtypes.Document, error) {
	switch c := content.(type) {
	case nil:
		return nil, nil
	case *edtypes.Document:
		return c, nil
	case edtypes.Document:
		return &c, nil
	case string:
		if strings.TrimSpace(c) == "" {
			return nil, nil
		}
		return r.parse([]byte(c))
	case json.RawMessage:
		return r.normalizeBytes(c)
	case []byte:
		return r.normalizeBytes(c)
	case map[string]any:
		data, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		return r.parse(data)
	default:
		return nil, fmt.Errorf("%w: %T", errUnsupportedContent, content)
	}
}

// normalizeBytes разбирает байты из хранилища. JSONB колонка может содержать документ, сохраненный строкой.
func (r *Renderer) normalizeBytes(data []byte) (*edtypes.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return r.parse([]byte(s))
	}
	return r.parse(trimmed)
}

func (r *Renderer) parse(data []byte) (*edtypes.Document, error) {
	return tiptap.Parser{MaxDepth: r.maxDepth(), Coerce: true}.Parse(bytes.NewReader(data))
}

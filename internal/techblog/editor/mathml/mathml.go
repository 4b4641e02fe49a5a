// Пакет mathml переводит LaTeX формулы в MathML для статической вставки в страницу.
//
// Основные возможности:
//   - Render никогда не возвращает ошибку и не паникует: при сбое выводится исходный LaTeX.
//   - Строчный и блочный (display) режимы.
//   - Интерфейс Renderer для подмены бэкенда в тестах.
package mathml

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/html"
)

const (
	ModeInline  = "inline"
	ModeDisplay = "display"
)

// FallbackTotal считает формулы, которые не удалось отрендерить. Регистрируется сервером.
var FallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "techblog",
	Name:      "math_fallback_total",
	Help:      "Total count of LaTeX expressions rendered as raw text",
}, []string{"mode"})

// Renderer превращает LaTeX в разметку. Реализация не должна паниковать и всегда возвращает строку.
type Renderer interface {
	Render(latex string, display bool) string
}

// Func - адаптер функции к Renderer.
type Func func(latex string, display bool) string

func (f Func) Render(latex string, display bool) string {
	return f(latex, display)
}

// Default - рендерер на treeblood.
var Default Renderer = Func(Render)

// Render переводит latex в MathML. Пустая формула дает пустую строку,
// ошибка или паника бэкенда дают исходный текст формулы в span.math-error.
func Render(latex string, display bool) (out string) {
	if strings.TrimSpace(latex) == "" {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			out = fallback(latex, display, fmt.Errorf("panic: %v", r))
		}
	}()

	res, err := backend(latex, display)
	if err != nil {
		return fallback(latex, display, err)
	}
	// treeblood форматирует вывод отступами, внешние пробелы видны в строчном тексте и в pre
	res = strings.TrimSpace(res)
	if res == "" {
		return fallback(latex, display, fmt.Errorf("empty output"))
	}
	return res
}

// Mode возвращает название режима для логов и метрик.
func Mode(display bool) string {
	if display {
		return ModeDisplay
	}
	return ModeInline
}

func fallback(latex string, display bool, err error) string {
	slog.Debug("Render latex", "mode", Mode(display), "latex", latex, "err", err)
	FallbackTotal.WithLabelValues(Mode(display)).Inc()
	return Fallback(latex, display)
}

// Fallback - разметка для формулы, которую не удалось отрендерить.
func Fallback(latex string, display bool) string {
	class := "math-error"
	if display {
		class += " math-error-display"
	}
	return `<span class="` + class + `">` + html.EscapeString(latex) + `</span>`
}

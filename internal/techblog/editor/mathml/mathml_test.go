package mathml

import (
	"errors"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withBackend временно подменяет бэкенд
func withBackend(t *testing.T, fn func(string, bool) (string, error)) {
	t.Helper()
	old := backend
	backend = fn
	t.Cleanup(func() { backend = old })
}

func fallbackCount(t *testing.T, display bool) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, FallbackTotal.WithLabelValues(Mode(display)).Write(&m))
	return m.GetCounter().GetValue()
}

func TestRenderEmpty(t *testing.T) {
	withBackend(t, func(string, bool) (string, error) {
		t.Fatal("backend must not be called for empty latex")
		return "", nil
	})
	assert.Equal(t, "", Render("", false))
	assert.Equal(t, "", Render("  \n", true))
}

func TestRenderModes(t *testing.T) {
	var gotDisplay []bool
	withBackend(t, func(latex string, display bool) (string, error) {
		gotDisplay = append(gotDisplay, display)
		return "<math>" + latex + "</math>", nil
	})

	assert.Equal(t, "<math>x</math>", Render("x", false))
	assert.Equal(t, "<math>y</math>", Render("y", true))
	assert.Equal(t, []bool{false, true}, gotDisplay)
}

func TestRenderTrimsBackendIndent(t *testing.T) {
	withBackend(t, func(latex string, display bool) (string, error) {
		return "  <math>\n    <mi>" + latex + "</mi>\n  </math>\n", nil
	})
	assert.Equal(t, "<math>\n    <mi>x</mi>\n  </math>", Render("x", false))

	withBackend(t, func(string, bool) (string, error) { return " \n ", nil })
	assert.Equal(t, `<span class="math-error">x</span>`, Render("x", false))
}

func TestRenderFallback(t *testing.T) {
	tests := []struct {
		name    string
		backend func(string, bool) (string, error)
		display bool
		want    string
	}{
		{
			name:    "backend error",
			backend: func(string, bool) (string, error) { return "", errors.New("bad tex") },
			want:    `<span class="math-error">\frac{a}{&lt;b}</span>`,
		},
		{
			name:    "backend panic",
			backend: func(string, bool) (string, error) { panic("index out of range") },
			display: true,
			want:    `<span class="math-error math-error-display">\frac{a}{&lt;b}</span>`,
		},
		{
			name:    "empty output",
			backend: func(string, bool) (string, error) { return "", nil },
			want:    `<span class="math-error">\frac{a}{&lt;b}</span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBackend(t, tt.backend)
			before := fallbackCount(t, tt.display)

			got := Render(`\frac{a}{<b}`, tt.display)
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
			assert.Equal(t, before+1, fallbackCount(t, tt.display))
		})
	}
}

func TestRenderTreeblood(t *testing.T) {
	out := Render(`x^2 + \frac{1}{2}`, false)
	assert.True(t, strings.HasPrefix(out, "<math") || strings.HasPrefix(out, `<span class="math-error"`), out)
	assert.Equal(t, strings.TrimSpace(out), out)
	assert.NotContains(t, Render(`\frac{1}{2}`, true), "<script")
}

func TestFuncAdapter(t *testing.T) {
	var r Renderer = Func(func(latex string, display bool) string {
		return Mode(display) + ":" + latex
	})
	assert.Equal(t, "display:a", r.Render("a", true))
	assert.Equal(t, "inline:b", r.Render("b", false))
}

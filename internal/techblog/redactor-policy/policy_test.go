package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "schema elements kept",
			in:   `<h2 id="intro">Intro</h2><p><strong>a</strong><em>b</em><s>c</s><u>d</u><mark>e</mark></p>`,
			want: `<h2 id="intro">Intro</h2><p><strong>a</strong><em>b</em><s>c</s><u>d</u><mark>e</mark></p>`,
		},
		{
			name: "cjk heading id",
			in:   `<h2 id="はじめに-2">はじめに</h2>`,
			want: `<h2 id="はじめに-2">はじめに</h2>`,
		},
		{
			name: "script removed",
			in:   `<p>x</p><script>alert(1)</script>`,
			want: `<p>x</p>`,
		},
		{
			name: "safe link kept",
			in:   `<a href="https://example.com/a" target="_blank" rel="noopener noreferrer nofollow">x</a>`,
			want: `<a href="https://example.com/a" target="_blank" rel="noopener noreferrer nofollow">x</a>`,
		},
		{
			name: "event handlers removed",
			in:   `<img src="/a.png" onerror="alert(1)" alt="a" class="my-6 overflow-hidden rounded-xl border bg-slate-50">`,
			want: `<img src="/a.png" alt="a" class="my-6 overflow-hidden rounded-xl border bg-slate-50">`,
		},
		{
			name: "unknown class removed",
			in:   `<hr class="evil"><hr class="my-6 border-t border-slate-200">`,
			want: `<hr><hr class="my-6 border-t border-slate-200">`,
		},
		{
			name: "id only on h2",
			in:   `<h3 id="x">x</h3><p id="y">y</p>`,
			want: `<h3>x</h3><p>y</p>`,
		},
		{
			name: "iframe removed",
			in:   `<iframe src="https://evil"></iframe><p>ok</p>`,
			want: `<p>ok</p>`,
		},
		{
			name: "text size span",
			in:   `<span data-size="s" class="text-size-s">small</span>`,
			want: `<span data-size="s" class="text-size-s">small</span>`,
		},
		{
			name: "mathml kept",
			in:   `<span data-type="inline-math" data-latex="x^2"><math display="inline"><msup><mi>x</mi><mn>2</mn></msup></math></span>`,
			want: `<span data-type="inline-math" data-latex="x^2"><math display="inline"><msup><mi>x</mi><mn>2</mn></msup></math></span>`,
		},
		{
			name: "table spans",
			in:   `<table><tbody><tr><th colspan="2" rowspan="1">h</th></tr><tr><td colspan="x">c</td></tr></tbody></table>`,
			want: `<table><tbody><tr><th colspan="2" rowspan="1">h</th></tr><tr><td>c</td></tr></tbody></table>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			if got != tt.want {
				t.Errorf("Sanitize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeUnsafeHref(t *testing.T) {
	for _, href := range []string{"javascript:alert(1)", "data:text/html;base64,PHNjcmlwdD4=", "vbscript:x"} {
		got := Sanitize(`<a href="` + href + `" target="_blank" rel="noopener noreferrer nofollow">x</a>`)
		assert.NotContains(t, got, "href", href)
		assert.Contains(t, got, "x")
	}
}

func TestExcerpt(t *testing.T) {
	in := `<p>Энергия <span data-type="inline-math" data-latex="E=mc^2"><math><mi>E</mi></math></span> &amp; масса</p><p>второй</p>`
	assert.Equal(t, "Энергия E=mc^2 & масса второй", Excerpt(in, 0))
	assert.Equal(t, "Энергия…", Excerpt(in, 8))
	assert.Equal(t, "", Excerpt("", 10))
}

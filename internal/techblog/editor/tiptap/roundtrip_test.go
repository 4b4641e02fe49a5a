package tiptap

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "full article", json: string(mustRead(t, "testdata/article.json"))},
		{name: "empty doc", json: `{"type":"doc"}`},
		{name: "empty content", json: `{"type":"doc","content":[]}`},
		{name: "empty paragraph", json: `{"type":"doc","content":[{"type":"paragraph"}]}`},
		{name: "doc attrs", json: `{"type":"doc","attrs":{"version":2},"content":[{"type":"horizontalRule","attrs":{"id":"hr1"}}]}`},
		{name: "aliases", json: `{"type":"doc","content":[{"type":"math_block","attrs":{"latex":"x"}},{"type":"paragraph","content":[{"type":"inlineMath","attrs":{"latex":"y","display":"no"}}]}]}`},
		{name: "inline image", json: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"see "},{"type":"image","attrs":{"src":"/a.png","title":"A"}}]}]}`},
		{name: "empty code block", json: `{"type":"doc","content":[{"type":"codeBlock","attrs":{"language":null}}]}`},
		{name: "text size null", json: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"a","marks":[{"type":"textSize","attrs":{"size":null}},{"type":"bold"}]}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseJSON(strings.NewReader(tt.json))
			require.NoError(t, err)

			data, err := Serialize(doc)
			require.NoError(t, err)

			again, err := ParseBytes(data)
			require.NoError(t, err, string(data))
			assert.Equal(t, doc, again)

			// Повторная сериализация - неподвижная точка
			data2, err := Serialize(again)
			require.NoError(t, err)
			assert.JSONEq(t, string(data), string(data2))
		})
	}
}

func TestSerializeKeepsUnknownAttrs(t *testing.T) {
	src := `{"type":"doc","content":[
		{"type":"paragraph","attrs":{"textAlign":"center","data-id":"p-1"},"content":[
			{"type":"text","text":"a","marks":[{"type":"highlight","attrs":{"color":"#fef08a"}},{"type":"link","attrs":{"href":"/x","class":"ref","weight":1.50}}]}
		]},
		{"type":"table","attrs":{"layout":"fixed"},"content":[{"type":"tableRow","attrs":{"h":3},"content":[
			{"type":"tableCell","attrs":{"align":"left"},"content":[{"type":"paragraph"}]}
		]}]}
	]}`

	doc, err := ParseJSON(strings.NewReader(src))
	require.NoError(t, err)

	data, err := Serialize(doc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	out := string(data)
	for _, want := range []string{
		`"textAlign":"center"`,
		`"data-id":"p-1"`,
		`"color":"#fef08a"`,
		`"class":"ref"`,
		`"weight":1.50`,
		`"layout":"fixed"`,
		`"h":3`,
		`"align":"left"`,
	} {
		assert.Contains(t, out, want)
	}
}

func TestSerializeMarkOrder(t *testing.T) {
	src := `{"type":"doc","content":[{"type":"paragraph","content":[
		{"type":"text","text":"a","marks":[{"type":"italic"},{"type":"code"},{"type":"bold"}]}
	]}]}`

	doc, err := ParseJSON(strings.NewReader(src))
	require.NoError(t, err)
	data, err := Serialize(doc)
	require.NoError(t, err)

	var root TipTapNode
	require.NoError(t, json.Unmarshal(data, &root))
	marks := root.Content[0].Content[0].Marks
	require.Len(t, marks, 3)
	assert.Equal(t, "italic", marks[0].Type)
	assert.Equal(t, "code", marks[1].Type)
	assert.Equal(t, "bold", marks[2].Type)
}

func TestSerializeCanonicalNames(t *testing.T) {
	doc, err := ParseJSON(strings.NewReader(`{"type":"doc","content":[{"type":"blockMath","attrs":{"latex":"x"}}]}`))
	require.NoError(t, err)
	data, err := Serialize(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"doc","content":[{"type":"mathBlock","attrs":{"latex":"x"}}]}`, string(data))
}

func TestSerializeNil(t *testing.T) {
	_, err := Serialize(nil)
	assert.Error(t, err)
}

func TestDocumentJSONHooks(t *testing.T) {
	var post struct {
		Content edtypes.Document `json:"content"`
	}
	err := json.Unmarshal([]byte(`{"content":{"type":"doc","content":[{"type":"heading","attrs":{"level":3},"content":[{"type":"text","text":"T"}]}]}}`), &post)
	require.NoError(t, err)
	require.Len(t, post.Content.Content, 1)
	assert.Equal(t, 3, post.Content.Content[0].(*edtypes.Heading).Level)

	err = json.Unmarshal([]byte(`{"content":{"type":"doc","content":[{"type":"heading","attrs":{"level":9}}]}}`), &post)
	assert.ErrorIs(t, err, edtypes.ErrSchemaViolation)
}

func TestDocumentValueScan(t *testing.T) {
	doc, err := ParseBytes(mustRead(t, "testdata/article.json"))
	require.NoError(t, err)

	v, err := doc.Value()
	require.NoError(t, err)

	var scanned edtypes.Document
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, *doc, scanned)

	require.NoError(t, scanned.Scan(string(v.([]byte))))
	assert.Equal(t, *doc, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned.Content)

	assert.Error(t, scanned.Scan(42))
	assert.Equal(t, "jsonb", edtypes.Document{}.GormDataType())
}

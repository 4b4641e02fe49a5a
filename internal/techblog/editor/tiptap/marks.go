package tiptap

import (
	"strings"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
)

// parseMarks парсит метки текстового узла, порядок сохраняется.
func (s *parseState) parseMarks(marks []TipTapMark, path string) ([]edtypes.Mark, error) {
	var res []edtypes.Mark
	for i, m := range marks {
		mark, ok, err := s.parseMark(m, childPath(path, "marks", i))
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, mark)
		}
	}
	return res, nil
}

func (s *parseState) parseMark(m TipTapMark, path string) (edtypes.Mark, bool, error) {
	t := edtypes.MarkType(m.Type)
	switch t {
	case edtypes.MarkBold, edtypes.MarkItalic, edtypes.MarkStrike, edtypes.MarkUnderline,
		edtypes.MarkCode, edtypes.MarkHighlight:
		return edtypes.Mark{Type: t, Attrs: extraAttrs(m.Attrs)}, true, nil

	case edtypes.MarkLink:
		href, _ := lookupString(m.Attrs, "href")
		if strings.TrimSpace(href) == "" {
			return edtypes.Mark{}, false, s.reject(attrPath(path, "href"), "link must have href")
		}
		return edtypes.Mark{
			Type:   t,
			Href:   href,
			Target: getAttrString(m.Attrs, "target"),
			Rel:    getAttrString(m.Attrs, "rel"),
			Attrs:  extraAttrs(m.Attrs, "href", "target", "rel"),
		}, true, nil

	case edtypes.MarkTextSize:
		size := ""
		if v, exists := m.Attrs["size"]; exists && v != nil {
			str, _ := v.(string)
			if str != edtypes.TextSizeSmall {
				if err := s.reject(attrPath(path, "size"), "textSize size must be null or %q", edtypes.TextSizeSmall); err != nil {
					return edtypes.Mark{}, false, err
				}
			} else {
				size = str
			}
		}
		return edtypes.Mark{Type: t, Size: size, Attrs: extraAttrs(m.Attrs, "size")}, true, nil

	default:
		return edtypes.Mark{}, false, s.reject(path, "unknown mark type %q", m.Type)
	}
}

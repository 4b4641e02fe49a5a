package tiptap

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
)

// getAttrString безопасно извлекает строковый атрибут из map.
func getAttrString(attrs map[string]any, key string) string {
	s, _ := lookupString(attrs, key)
	return s
}

// lookupString возвращает строку и признак того, что атрибут задан строкой.
func lookupString(attrs map[string]any, key string) (string, bool) {
	if attrs == nil {
		return "", false
	}
	val, ok := attrs[key]
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// lookupInt извлекает целое число. Второе значение false, если атрибута нет или он не целый.
func lookupInt(attrs map[string]any, key string) (int, bool) {
	if attrs == nil {
		return 0, false
	}
	val, ok := attrs[key]
	if !ok {
		return 0, false
	}
	return toInt(val)
}

func toInt(val any) (int, bool) {
	switch v := val.(type) {
	// Декодер работает с UseNumber
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
		if f, err := v.Float64(); err == nil && f == math.Trunc(f) {
			return floatToInt(f), true
		}
	case float64:
		if v == math.Trunc(v) {
			return floatToInt(v), true
		}
	case int:
		return v, true
	}
	return 0, false
}

// floatToInt насыщает значения за пределами int, прямое приведение для них не определено.
func floatToInt(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// lookupIntSlice извлекает массив целых (colwidth). null считается отсутствующим значением.
func lookupIntSlice(attrs map[string]any, key string) ([]int, error) {
	if attrs == nil || attrs[key] == nil {
		return nil, nil
	}
	raw, ok := attrs[key].([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of integers", key)
	}
	res := make([]int, 0, len(raw))
	for _, v := range raw {
		i, ok := toInt(v)
		if !ok {
			return nil, fmt.Errorf("%s must be an array of integers", key)
		}
		res = append(res, i)
	}
	return res, nil
}

// extraAttrs возвращает атрибуты, не описанные схемой для данного типа.
func extraAttrs(attrs map[string]any, known ...string) edtypes.Attrs {
	if len(attrs) == 0 {
		return nil
	}
	var res edtypes.Attrs
	for k, v := range attrs {
		if contains(known, k) {
			continue
		}
		if res == nil {
			res = make(edtypes.Attrs)
		}
		res[k] = v
	}
	return res
}

// withExtra создает map атрибутов для сериализации: копия неизвестных атрибутов плюс известные.
func withExtra(extra edtypes.Attrs, known map[string]any) map[string]any {
	if len(extra) == 0 && len(known) == 0 {
		return nil
	}
	res := make(map[string]any, len(extra)+len(known))
	for k, v := range extra {
		res[k] = v
	}
	for k, v := range known {
		res[k] = v
	}
	return res
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func childPath(path string, field string, i int) string {
	if path == "" {
		return fmt.Sprintf("%s[%d]", field, i)
	}
	return fmt.Sprintf("%s.%s[%d]", path, field, i)
}

func attrPath(path string, key string) string {
	if path == "" {
		return "attrs." + key
	}
	return path + ".attrs." + key
}

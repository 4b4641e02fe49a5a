package mathml

import (
	"github.com/wyatt915/treeblood"
)

// macros - пользовательские макросы, общие для всех статей
var macros = map[string]string{
	`\R`: `\mathbb{R}`,
	`\N`: `\mathbb{N}`,
	`\Z`: `\mathbb{Z}`,
}

// backend может паниковать на некорректном вводе, вызывать только из Render.
var backend = func(latex string, display bool) (string, error) {
	if display {
		return treeblood.DisplayStyle(latex, macros)
	}
	return treeblood.InlineStyle(latex, macros)
}

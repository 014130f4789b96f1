// Package heuristic classifies source lines as code, comment or blank and
// derives a cyclomatic complexity seed using per-language keyword heuristics.
package heuristic

import (
	"path/filepath"
	"sort"
	"strings"
)

// Variant identifies the heuristic family applied to a file.
type Variant string

const (
	VariantGeneric    Variant = "generic"
	VariantPython     Variant = "python"
	VariantJavaScript Variant = "javascript"
)

// variantByExt maps lowercase extensions (without the dot) to a variant.
// Extensions not listed here fall back to VariantGeneric.
var variantByExt = map[string]Variant{
	"py":  VariantPython,
	"js":  VariantJavaScript,
	"jsx": VariantJavaScript,
	"mjs": VariantJavaScript,
	"ts":  VariantJavaScript,
}

// DetectVariant selects the variant for a file by its extension.
func DetectVariant(path string) Variant {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return VariantGeneric
	}
	if v, ok := variantByExt[ext]; ok {
		return v
	}
	return VariantGeneric
}

// Variants returns every known variant.
func Variants() []Variant {
	return []Variant{VariantGeneric, VariantPython, VariantJavaScript}
}

// Extensions returns the sorted extensions mapped to v.
func Extensions(v Variant) []string {
	var exts []string
	for ext, mapped := range variantByExt {
		if mapped == v {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

package codegen

import (
	"strconv"
	"strings"
)

// NamedImport is one exported name and the module it comes from.
type NamedImport struct {
	Name string
	Path string
}

// ImportLines groups named imports by module. Modules and names keep
// first-seen order; duplicates are dropped.
func ImportLines(imports []NamedImport) []string {
	var paths []string
	names := make(map[string][]string)
	seen := make(map[NamedImport]bool)

	for _, imp := range imports {
		if imp.Name == "" || imp.Path == "" || seen[imp] {
			continue
		}
		seen[imp] = true
		if _, ok := names[imp.Path]; !ok {
			paths = append(paths, imp.Path)
		}
		names[imp.Path] = append(names[imp.Path], imp.Name)
	}

	lines := make([]string, 0, len(paths))
	for _, p := range paths {
		lines = append(lines, "import { "+strings.Join(names[p], ", ")+" } from "+strconv.Quote(p)+";")
	}
	return lines
}

// SideEffectImport returns the import line for a stylesheet.
func SideEffectImport(path string) string {
	if path == "" {
		return ""
	}
	return "import " + strconv.Quote(path) + ";"
}

// MergeImports concatenates import groups, keeping the first occurrence of
// each line and dropping empty ones.
func MergeImports(groups ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, group := range groups {
		for _, line := range group {
			line = strings.TrimSpace(line)
			if line == "" || seen[line] {
				continue
			}
			seen[line] = true
			out = append(out, line)
		}
	}
	return out
}

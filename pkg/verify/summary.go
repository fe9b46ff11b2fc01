package verify

import "strings"

// Summary is a compact structural description of generated code.
type Summary struct {
	Components []ComponentSummary `json:"components"`
	Imports    []string           `json:"imports"`
	LineCount  int                `json:"line_count"`
}

// ComponentSummary describes one component element.
type ComponentSummary struct {
	Name     string   `json:"name"`
	Line     int      `json:"line"`
	Props    []string `json:"props"`
	Children int      `json:"children_count"` // direct component children
}

func summarize(code string, ext *Extraction) Summary {
	counts := ext.childCounts()
	components := make([]ComponentSummary, 0, len(ext.Usages))
	for i, u := range ext.Usages {
		props := make([]string, 0, len(u.Attributes))
		for _, a := range u.Attributes {
			props = append(props, a.Name)
		}
		components = append(components, ComponentSummary{
			Name:     u.Name,
			Line:     u.Line,
			Props:    props,
			Children: counts[i],
		})
	}

	imports := make([]string, 0, len(ext.Imports))
	for _, imp := range ext.Imports {
		imports = append(imports, imp.Source)
	}

	return Summary{
		Components: components,
		Imports:    imports,
		LineCount:  strings.Count(code, "\n") + 1,
	}
}

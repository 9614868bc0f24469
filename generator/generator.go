// Package generator emits Go source stubs from the analysis item
// catalogue. It is deliberately the smallest consumer of the ingestion
// model: one declaration stub per catalogue item, grouped by origin, with
// the parsed member declarations rendered as pseudo-declaration comments.
package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/ardanlabs/vk-converter/analysis"
)

type Generator struct {
	packageName string
	items       *analysis.Items
}

func New(packageName string, items *analysis.Items) *Generator {
	return &Generator{
		packageName: packageName,
		items:       items,
	}
}

// Generate renders the output files, keyed by file name.
func (g *Generator) Generate() (map[string]string, error) {
	files := make(map[string]string)

	typesCode, err := g.generateTypes()
	if err != nil {
		return nil, fmt.Errorf("generating types: %w", err)
	}
	files["types.go"] = typesCode

	return files, nil
}

const typesHeader = `// Code generated by vk-converter. DO NOT EDIT.

package {{.Package}}

// {{.Count}} types, selected and tagged by the registry item catalogue.
`

func (g *Generator) generateTypes() (string, error) {
	t, err := template.New("header").Parse(typesHeader)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = t.Execute(&buf, map[string]any{
		"Package": g.packageName,
		"Count":   g.items.Len(),
	})
	if err != nil {
		return "", err
	}

	g.items.Each(func(name string, item analysis.Item) {
		fmt.Fprintf(&buf, "\n// %s is declared by %s.\n", name, item.Origin)
		for _, member := range item.Structure.Members {
			fmt.Fprintf(&buf, "//\t%s\n", member.Decl)
		}
		fmt.Fprintf(&buf, "type %s struct{}\n", toGoName(name))
	})

	return buf.String(), nil
}

// toGoName strips the C namespace prefix; registry names are already
// camel-cased.
func toGoName(name string) string {
	for _, prefix := range []string{"Vk", "StdVideo"} {
		if rest := strings.TrimPrefix(name, prefix); rest != name && rest != "" {
			return rest
		}
	}
	return name
}

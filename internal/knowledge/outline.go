package knowledge

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"persona-chat/internal/domain"
)

// Outline recorre el Markdown y devuelve cada encabezado con los items de lista que le siguen.
// Los items anidados se aplanan dentro del item padre.
func Outline(text string) []domain.KnowledgeSection {
	src := []byte(text)
	root := goldmark.DefaultParser().Parse(gmtext.NewReader(src))

	var sections []domain.KnowledgeSection
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			sections = append(sections, domain.KnowledgeSection{Title: plainText(node, src)})
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if len(sections) > 0 {
				last := &sections[len(sections)-1]
				if item := plainText(node, src); item != "" {
					last.Items = append(last.Items, item)
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sections
}

// FunFacts devuelve los items de la seccion de fun facts, o nil si el documento no la tiene.
func FunFacts(doc domain.KnowledgeDocument) []string {
	section, ok := doc.Section("fun fact")
	if !ok {
		return nil
	}
	return section.Items
}

func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if c.Type() == ast.TypeBlock && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

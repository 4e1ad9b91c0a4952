package knowledge

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlDocument es el formato estructurado alternativo al Markdown.
type yamlDocument struct {
	Version  string        `yaml:"version"`
	Title    string        `yaml:"title"`
	Sections []yamlSection `yaml:"sections"`
}

type yamlSection struct {
	Title string   `yaml:"title"`
	Body  string   `yaml:"body,omitempty"`
	Items []string `yaml:"items,omitempty"`
}

func decodeYAML(raw []byte) (yamlDocument, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return yamlDocument{}, fmt.Errorf("decode yaml document: %w", err)
	}
	return doc, nil
}

// render compila el YAML a Markdown una sola vez; el resultado es el texto inmutable.
func (d yamlDocument) render() string {
	var sb strings.Builder
	if t := strings.TrimSpace(d.Title); t != "" {
		sb.WriteString("# " + t + "\n\n")
	}
	for _, s := range d.Sections {
		sb.WriteString("## " + strings.TrimSpace(s.Title) + "\n\n")
		if body := strings.TrimSpace(s.Body); body != "" {
			sb.WriteString(body + "\n\n")
		}
		for _, item := range s.Items {
			sb.WriteString("- " + strings.TrimSpace(item) + "\n")
		}
		if len(s.Items) > 0 {
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

package domain

import (
	"strings"
	"time"
)

// KnowledgeSection es un encabezado del documento con sus items de lista.
type KnowledgeSection struct {
	Title string   `json:"title"`
	Items []string `json:"items,omitempty"`
}

// KnowledgeDocument es el texto biografico inmutable que se envia completo en cada request.
// Sections es un indice de solo lectura derivado del texto al cargarlo.
type KnowledgeDocument struct {
	Version   string             `json:"version"`
	Source    string             `json:"source"`
	Text      string             `json:"-"`
	Sections  []KnowledgeSection `json:"sections,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// Section busca la primera seccion cuyo titulo contiene name (sin distinguir mayusculas).
func (d KnowledgeDocument) Section(name string) (KnowledgeSection, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return KnowledgeSection{}, false
	}
	for _, s := range d.Sections {
		if strings.Contains(strings.ToLower(s.Title), needle) {
			return s, true
		}
	}
	return KnowledgeSection{}, false
}

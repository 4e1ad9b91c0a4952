package knowledge

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"persona-chat/internal/domain"
)

const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

var (
	ErrEmptyDocument = errors.New("knowledge document is empty")
	ErrUnknownSource = errors.New("knowledge unknown source")
	ErrNoStore       = errors.New("knowledge store not configured")
)

//go:embed profile.md
var embeddedProfile string

// Store entrega la ultima version publicada del documento.
type Store interface {
	Latest(ctx context.Context) (domain.KnowledgeDocument, error)
}

// Loader resuelve la fuente del documento; se usa una sola vez por proceso.
type Loader struct {
	Source string
	Path   string
	Store  Store
}

func (l Loader) Load(ctx context.Context) (domain.KnowledgeDocument, error) {
	switch strings.ToLower(strings.TrimSpace(l.Source)) {
	case "", SourceEmbedded:
		return LoadDefault()
	case SourceFile:
		return LoadFile(l.Path)
	case SourcePostgres:
		if l.Store == nil {
			return domain.KnowledgeDocument{}, ErrNoStore
		}
		doc, err := l.Store.Latest(ctx)
		if err != nil {
			return domain.KnowledgeDocument{}, fmt.Errorf("load latest knowledge: %w", err)
		}
		return finalize(doc)
	default:
		return domain.KnowledgeDocument{}, fmt.Errorf("%w: %q", ErrUnknownSource, l.Source)
	}
}

// LoadDefault devuelve la biografia compilada en el binario.
func LoadDefault() (domain.KnowledgeDocument, error) {
	return finalize(domain.KnowledgeDocument{
		Source: SourceEmbedded,
		Text:   embeddedProfile,
	})
}

// LoadFile lee .md/.txt tal cual; .yaml/.yml se compila a Markdown.
func LoadFile(path string) (domain.KnowledgeDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.KnowledgeDocument{}, fmt.Errorf("read knowledge file: %w", err)
	}

	doc := domain.KnowledgeDocument{Source: SourceFile + ":" + filepath.Base(path)}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		y, err := decodeYAML(raw)
		if err != nil {
			return domain.KnowledgeDocument{}, err
		}
		doc.Version = strings.TrimSpace(y.Version)
		doc.Text = y.render()
	default:
		doc.Text = string(raw)
	}
	return finalize(doc)
}

func finalize(doc domain.KnowledgeDocument) (domain.KnowledgeDocument, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return domain.KnowledgeDocument{}, ErrEmptyDocument
	}
	if doc.Version == "" {
		doc.Version = ContentVersion(doc.Text)
	}
	if doc.Sections == nil {
		doc.Sections = Outline(doc.Text)
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	return doc, nil
}

// ContentVersion identifica un texto por su hash cuando no trae version declarada.
func ContentVersion(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "sha256:" + hex.EncodeToString(sum[:])[:12]
}

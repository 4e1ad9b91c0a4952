package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"persona-chat/internal/domain"
)

type stubStore struct {
	doc domain.KnowledgeDocument
	err error
}

func (s stubStore) Latest(context.Context) (domain.KnowledgeDocument, error) {
	return s.doc, s.err
}

func TestLoadDefault(t *testing.T) {
	doc, err := LoadDefault()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Source != SourceEmbedded {
		t.Fatalf("expected embedded source, got %q", doc.Source)
	}
	if !strings.HasPrefix(doc.Version, "sha256:") {
		t.Fatalf("expected content version, got %q", doc.Version)
	}
	for _, name := range []string{"Education", "Skills", "Experience", "Projects", "Fun Facts", "Weaknesses", "Tech Stack", "Contact"} {
		if _, ok := doc.Section(name); !ok {
			t.Fatalf("expected section %q in embedded profile", name)
		}
	}

	again, _ := LoadDefault()
	if again.Text != doc.Text || again.Version != doc.Version {
		t.Fatalf("expected identical text and version across loads")
	}
}

func TestFunFactsFromEmbeddedProfile(t *testing.T) {
	doc, err := LoadDefault()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	facts := FunFacts(doc)
	if len(facts) != 9 {
		t.Fatalf("expected 9 fun facts, got %d: %+v", len(facts), facts)
	}
	if facts[0] != "I have watched movies in 12 different languages!" {
		t.Fatalf("expected markdown stripped from first fact, got %q", facts[0])
	}
}

func TestOutline(t *testing.T) {
	md := `# Jane Doe

Intro paragraph.

## Experience

1. **Engineer - Acme** (2020 – Present)
   - Built *things*.
2. Intern - Initech

## Contact Information

- Email: jane@example.com
- Site: <https://jane.dev>
`
	sections := Outline(md)
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d: %+v", len(sections), sections)
	}
	if sections[0].Title != "Jane Doe" || len(sections[0].Items) != 0 {
		t.Fatalf("unexpected first section %+v", sections[0])
	}
	exp := sections[1]
	if exp.Title != "Experience" || len(exp.Items) != 2 {
		t.Fatalf("unexpected experience section %+v", exp)
	}
	if exp.Items[0] != "Engineer - Acme (2020 – Present) Built things." {
		t.Fatalf("expected nested items flattened, got %q", exp.Items[0])
	}
	contact := sections[2]
	if len(contact.Items) != 2 || contact.Items[1] != "Site: https://jane.dev" {
		t.Fatalf("unexpected contact items %+v", contact.Items)
	}
}

func TestLoadFile_MarkdownVerbatim(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bio.md")
	body := "## Weaknesses\n\n- Too detail-focused\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != body {
		t.Fatalf("expected verbatim text, got %q", doc.Text)
	}
	if doc.Source != "file:bio.md" {
		t.Fatalf("unexpected source %q", doc.Source)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bio.yaml")
	raw := `version: "2025-03"
title: Jane Doe
sections:
  - title: Fun Facts
    items:
      - I juggle.
      - I speak 3 languages.
  - title: Contact
    body: jane@example.com
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Version != "2025-03" {
		t.Fatalf("expected declared version, got %q", doc.Version)
	}
	want := "# Jane Doe\n\n## Fun Facts\n\n- I juggle.\n- I speak 3 languages.\n\n## Contact\n\njane@example.com\n"
	if doc.Text != want {
		t.Fatalf("unexpected render:\n%q\nwant\n%q", doc.Text, want)
	}
	if facts := FunFacts(doc); len(facts) != 2 || facts[1] != "I speak 3 languages." {
		t.Fatalf("unexpected fun facts %+v", facts)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.md")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.txt")
	_ = os.WriteFile(empty, []byte("  \n"), 0o600)
	if _, err := LoadFile(empty); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yml")
	_ = os.WriteFile(bad, []byte("sections: [::"), 0o600)
	if _, err := LoadFile(bad); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("embedded por defecto", func(t *testing.T) {
		doc, err := Loader{}.Load(ctx)
		if err != nil || doc.Source != SourceEmbedded {
			t.Fatalf("expected embedded doc, got %+v (%v)", doc.Source, err)
		}
	})

	t.Run("postgres usa el store", func(t *testing.T) {
		created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		store := stubStore{doc: domain.KnowledgeDocument{Version: "v7", Source: SourcePostgres, Text: "## Fun Facts\n\n- one\n", CreatedAt: created}}
		doc, err := Loader{Source: "Postgres", Store: store}.Load(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.Version != "v7" || !doc.CreatedAt.Equal(created) {
			t.Fatalf("expected stored version and timestamp, got %+v", doc)
		}
		if len(FunFacts(doc)) != 1 {
			t.Fatalf("expected outline derived from stored text")
		}
	})

	t.Run("postgres sin store", func(t *testing.T) {
		if _, err := (Loader{Source: SourcePostgres}).Load(ctx); !errors.Is(err, ErrNoStore) {
			t.Fatalf("expected ErrNoStore, got %v", err)
		}
	})

	t.Run("error del store", func(t *testing.T) {
		_, err := Loader{Source: SourcePostgres, Store: stubStore{err: errors.New("down")}}.Load(ctx)
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("fuente desconocida", func(t *testing.T) {
		if _, err := (Loader{Source: "s3"}).Load(ctx); !errors.Is(err, ErrUnknownSource) {
			t.Fatalf("expected ErrUnknownSource, got %v", err)
		}
	})
}

func TestContentVersionStable(t *testing.T) {
	a := ContentVersion("hello")
	if a != ContentVersion("hello") || a == ContentVersion("hello!") {
		t.Fatalf("expected stable, content-dependent version")
	}
	if len(a) != len("sha256:")+12 {
		t.Fatalf("unexpected version length %q", a)
	}
}

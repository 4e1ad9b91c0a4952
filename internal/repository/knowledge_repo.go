package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"persona-chat/internal/domain"
)

var (
	ErrVersionExists = errors.New("knowledge version already published")
	ErrNoKnowledge   = errors.New("no knowledge document published")
)

type KnowledgeRepository interface {
	Latest(ctx context.Context) (domain.KnowledgeDocument, error)
	Publish(ctx context.Context, doc domain.KnowledgeDocument) error
}

// dbtx cubre lo que usamos de pgxpool.Pool (y de pgx.Tx).
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgKnowledgeRepository struct {
	db dbtx
}

func NewPgKnowledgeRepository(db dbtx) *PgKnowledgeRepository {
	return &PgKnowledgeRepository{db: db}
}

// EnsureSchema crea la tabla si no existe.
func (r *PgKnowledgeRepository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS knowledge_documents (
			version    TEXT PRIMARY KEY,
			source     TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	_, err := r.db.Exec(ctx, query)
	return err
}

func (r *PgKnowledgeRepository) Latest(ctx context.Context) (domain.KnowledgeDocument, error) {
	const query = `
		SELECT version, source, body, created_at
		FROM knowledge_documents
		ORDER BY created_at DESC
		LIMIT 1
	`
	var doc domain.KnowledgeDocument
	err := r.db.QueryRow(ctx, query).Scan(
		&doc.Version,
		&doc.Source,
		&doc.Text,
		&doc.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.KnowledgeDocument{}, ErrNoKnowledge
	}
	if err != nil {
		return domain.KnowledgeDocument{}, err
	}
	doc.CreatedAt = doc.CreatedAt.UTC()
	return doc, nil
}

// Publish inserta una version nueva; nunca sobreescribe una existente.
func (r *PgKnowledgeRepository) Publish(ctx context.Context, doc domain.KnowledgeDocument) error {
	if strings.TrimSpace(doc.Version) == "" {
		return fmt.Errorf("publish knowledge: empty version")
	}
	const query = `
		INSERT INTO knowledge_documents (version, source, body, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (version) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query,
		doc.Version,
		doc.Source,
		doc.Text,
		doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("publish knowledge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrVersionExists, doc.Version)
	}
	return nil
}

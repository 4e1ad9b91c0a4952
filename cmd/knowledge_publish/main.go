package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"persona-chat/internal/config"
	"persona-chat/internal/db"
	"persona-chat/internal/domain"
	"persona-chat/internal/knowledge"
	"persona-chat/internal/repository"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "knowledge_publish",
		Short:        "Compila y publica el documento de conocimiento en Postgres",
		SilenceUsage: true,
	}
	root.AddCommand(newPublishCmd(), newShowCmd(), newInspectCmd())
	return root
}

func newPublishCmd() *cobra.Command {
	var (
		file    string
		version string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publica una version nueva (nunca sobreescribe una existente)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := compile(file, version)
			if err != nil {
				return err
			}
			printSummary(cmd, doc)
			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), "dry-run: nada publicado")
				return nil
			}
			return withRepo(cmd.Context(), func(repo *repository.PgKnowledgeRepository) error {
				if err := repo.EnsureSchema(cmd.Context()); err != nil {
					return fmt.Errorf("ensure schema: %w", err)
				}
				if err := repo.Publish(cmd.Context(), doc); err != nil {
					if errors.Is(err, repository.ErrVersionExists) {
						return fmt.Errorf("la version %s ya existe; usa --version para publicar otra", doc.Version)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "publicada %s\n", doc.Version)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "documento .md, .txt o .yaml (vacio: documento embebido)")
	cmd.Flags().StringVar(&version, "version", "", "version a publicar (default: declarada o hash del contenido)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compilar sin publicar")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Muestra la ultima version publicada",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRepo(cmd.Context(), func(repo *repository.PgKnowledgeRepository) error {
				doc, err := repo.Latest(cmd.Context())
				if err != nil {
					return err
				}
				doc.Sections = knowledge.Outline(doc.Text)
				printSummary(cmd, doc)
				return nil
			})
		},
	}
}

func newInspectCmd() *cobra.Command {
	var (
		file  string
		model string
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Muestra el outline y el tamaño estimado en tokens sin tocar la base",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := compile(file, "")
			if err != nil {
				return err
			}
			printSummary(cmd, doc)
			tokens, err := knowledge.EstimateTokens(model, doc.Text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tokens estimados (%s): %d\n", model, tokens)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "documento .md, .txt o .yaml (vacio: documento embebido)")
	cmd.Flags().StringVar(&model, "model", "gpt-3.5-turbo", "modelo para elegir el encoding")
	return cmd
}

func compile(file, version string) (domain.KnowledgeDocument, error) {
	var (
		doc domain.KnowledgeDocument
		err error
	)
	if strings.TrimSpace(file) == "" {
		doc, err = knowledge.LoadDefault()
	} else {
		doc, err = knowledge.LoadFile(file)
	}
	if err != nil {
		return domain.KnowledgeDocument{}, err
	}
	if v := strings.TrimSpace(version); v != "" {
		doc.Version = v
	}
	return doc, nil
}

func withRepo(ctx context.Context, fn func(repo *repository.PgKnowledgeRepository) error) error {
	cfg := &config.Config{DatabaseURL: os.Getenv("DATABASE_URL")}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error("db connect", zap.Error(err))
		return err
	}
	defer pool.Close()

	return fn(repository.NewPgKnowledgeRepository(pool))
}

func printSummary(cmd *cobra.Command, doc domain.KnowledgeDocument) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "version: %s\nsource:  %s\nbytes:   %d\n", doc.Version, doc.Source, len(doc.Text))
	for _, s := range doc.Sections {
		fmt.Fprintf(out, "  - %s (%d items)\n", s.Title, len(s.Items))
	}
}

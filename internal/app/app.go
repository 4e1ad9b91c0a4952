package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"persona-chat/internal/config"
	"persona-chat/internal/db"
	"persona-chat/internal/domain"
	apihttp "persona-chat/internal/http"
	"persona-chat/internal/knowledge"
	"persona-chat/internal/llm"
	"persona-chat/internal/repository"
	"persona-chat/internal/service"
)

// App agrupa lo que comparten los entrypoints: documento, relay y router.
type App struct {
	Config   *config.Config
	Document domain.KnowledgeDocument
	Relay    *service.RelayService
	Router   *gin.Engine

	closers []func() error
}

// Build carga el documento, arma el proveedor LLM y el relay. Si client es nil se usa el configurado.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, client llm.Client) (*App, error) {
	a := &App{Config: cfg}

	doc, err := a.loadDocument(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Document = doc

	if client == nil {
		c, closeFn, err := llm.NewClient(ctx, cfg, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("llm client: %w", err)
		}
		a.closers = append(a.closers, closeFn)
		client = c
	}

	prompt := service.PersonaPrompt{
		Name:     cfg.PersonaName,
		Email:    cfg.PersonaEmail,
		LinkedIn: cfg.PersonaLinkedIn,
	}
	a.Relay = service.NewRelayService(logger, client, prompt, doc, cfg.Model(), cfg.LLMTimeout)

	if cfg.FunFactRotation {
		store := a.funFactStore(ctx, cfg, logger)
		rotator := service.NewFunFactRotator(knowledge.FunFacts(doc), store, logger)
		if rotator == nil {
			logger.Warn("fun fact rotation enabled but document has no fun facts")
		}
		a.Relay.WithFunFactRotator(rotator)
	}

	chatHandler := apihttp.NewChatHandler(logger, a.Relay)
	healthHandler := apihttp.NewHealthHandler(doc.Version)
	a.Router = apihttp.NewRouter(logger, chatHandler, healthHandler, cfg.CORSOrigins)

	logger.Info("relay ready",
		zap.String("provider", cfg.LLMProvider),
		zap.String("model", cfg.Model()),
		zap.String("knowledge_source", doc.Source),
		zap.String("knowledge_version", doc.Version),
		zap.Int("knowledge_sections", len(doc.Sections)),
	)
	return a, nil
}

// Close libera los recursos abiertos por Build, en orden inverso.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) loadDocument(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.KnowledgeDocument, error) {
	loader := knowledge.Loader{Source: cfg.KnowledgeSource, Path: cfg.KnowledgePath}
	if cfg.KnowledgeSource == config.KnowledgePostgres {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return domain.KnowledgeDocument{}, fmt.Errorf("db connect: %w", err)
		}
		// El pool solo se usa al arrancar.
		defer pool.Close()
		loader.Store = repository.NewPgKnowledgeRepository(pool)
	}

	doc, err := loader.Load(ctx)
	if err != nil {
		return domain.KnowledgeDocument{}, fmt.Errorf("load knowledge: %w", err)
	}
	logger.Info("knowledge document loaded", zap.String("version", doc.Version), zap.Int("bytes", len(doc.Text)))
	return doc, nil
}

func (a *App) funFactStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) service.FunFactStore {
	if cfg.RedisAddr == "" {
		return service.NewMemoryFunFactStore(cfg.FunFactTTL)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		logger.Warn("redis ping failed, using memory fun fact store", zap.Error(err))
		_ = client.Close()
		return service.NewMemoryFunFactStore(cfg.FunFactTTL)
	}
	a.closers = append(a.closers, client.Close)
	return service.NewRedisFunFactStore(client, cfg.FunFactTTL)
}

// LogPromptSize registra el tamaño estimado en tokens del mensaje de sistema.
func (a *App) LogPromptSize(logger *zap.Logger) {
	tokens, err := knowledge.EstimateTokens(a.Config.Model(), a.Relay.SystemPrompt())
	if err != nil {
		logger.Warn("token estimate failed", zap.Error(err))
		return
	}
	logger.Info("system prompt size", zap.Int("estimated_tokens", tokens), zap.String("model", a.Config.Model()))
}

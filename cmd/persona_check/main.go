package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"persona-chat/internal/app"
	"persona-chat/internal/config"
	"persona-chat/internal/domain"
	"persona-chat/internal/knowledge"
	"persona-chat/internal/llm"
	"persona-chat/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

type options struct {
	scenariosPath string
	judge         bool
}

func main() {
	var opts options
	cmd := &cobra.Command{
		Use:          "persona_check",
		Short:        "Corre escenarios contra el modelo configurado y verifica el contrato de persona",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.scenariosPath, "scenarios", "", "archivo YAML con escenarios (default: escenarios incluidos)")
	cmd.Flags().BoolVar(&opts.judge, "judge", false, "evaluar cada respuesta con un LLM juez")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := zap.NewExample()
	defer logger.Sync()

	client, closeFn, err := llm.NewClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	a, err := app.Build(ctx, cfg, logger, client)
	if err != nil {
		return err
	}
	defer a.Close()

	prompt := service.PersonaPrompt{Name: cfg.PersonaName, Email: cfg.PersonaEmail, LinkedIn: cfg.PersonaLinkedIn}
	scenarios := defaultScenarios(prompt)
	if opts.scenariosPath != "" {
		if scenarios, err = loadScenarios(opts.scenariosPath); err != nil {
			return err
		}
	}

	facts := knowledge.FunFacts(a.Document)
	judgeParams := llm.Params{Model: cfg.Model(), Temperature: 0, MaxTokens: 400}
	sessionID := uuid.NewString()

	var failed int
	var totalGrounded, totalPersona, totalContract, judged int
	for _, sc := range scenarios {
		fmt.Printf("%s[%s]%s %s\n", colorCyan, sc.Name, colorReset, sc.Input)

		reply, err := a.Relay.Handle(ctx, domain.ChatRequest{Message: sc.Input, SessionID: sessionID})
		if err != nil {
			failed++
			fmt.Printf("%sFALLA%s relay: %v\n\n", colorRed, colorReset, err)
			continue
		}
		fmt.Printf("%s\n", reply)

		failures := evaluate(sc, reply, facts)
		if len(failures) == 0 {
			fmt.Printf("%sOK%s\n", colorGreen, colorReset)
		} else {
			failed++
			for _, f := range failures {
				fmt.Printf("%sFALLA%s %s\n", colorRed, colorReset, f)
			}
		}

		if opts.judge {
			jr, err := evaluateWithJudge(ctx, client, judgeParams, a.Document.Text, sc.Input, reply, failures)
			if err != nil {
				logger.Warn("judge failed", zap.Error(err), zap.String("scenario", sc.Name))
			} else {
				fmt.Printf("Juez: %q\n", jr.Reasoning)
				fmt.Printf("Scores: Fundamento %d/5 | Persona %d/5 | Contrato %d/5\n", jr.GroundedScore, jr.PersonaScore, jr.ContractScore)
				totalGrounded += jr.GroundedScore
				totalPersona += jr.PersonaScore
				totalContract += jr.ContractScore
				judged++
			}
		}
		fmt.Println()
	}

	fmt.Println("==== Resultado ====")
	fmt.Printf("Escenarios: %d | Fallidos: %d\n", len(scenarios), failed)
	if judged > 0 {
		n := float64(judged)
		fmt.Printf("Fundamento: %.2f/5 | Persona: %.2f/5 | Contrato: %.2f/5\n",
			float64(totalGrounded)/n, float64(totalPersona)/n, float64(totalContract)/n)
	}
	if failed > 0 {
		return fmt.Errorf("%d escenarios fallidos", failed)
	}
	return nil
}

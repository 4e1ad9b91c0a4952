package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"persona-chat/internal/app"
	"persona-chat/internal/config"
	"persona-chat/internal/domain"
	"persona-chat/internal/service"
)

// relay es lo que el loop de chat necesita del servicio.
type relay interface {
	Handle(ctx context.Context, req domain.ChatRequest) (string, error)
}

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	a, err := app.Build(ctx, cfg, logger, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	fmt.Printf("===== Chat con %s =====\n", cfg.PersonaName)
	fmt.Printf("Documento: %s (%s)\n", a.Document.Version, a.Document.Source)
	fmt.Println("Escribe /exit para salir.")

	if err := chatLoop(ctx, os.Stdin, os.Stdout, a.Relay, cfg.PersonaName, uuid.NewString()); err != nil {
		log.Fatalf("leer entrada: %v", err)
	}
}

// chatLoop lee un mensaje por linea hasta /exit o EOF y escribe cada respuesta.
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, r relay, name, sessionID string) error {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "\nTu: ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		msg := strings.TrimSpace(line)
		if msg == "/exit" || (errors.Is(err, io.EOF) && msg == "") {
			fmt.Fprintln(out, "Chau!")
			return nil
		}
		if msg != "" {
			reply, herr := r.Handle(ctx, domain.ChatRequest{Message: msg, SessionID: sessionID})
			switch {
			case errors.Is(herr, service.ErrUpstream):
				fmt.Fprintf(out, "[error] no se pudo obtener respuesta del modelo: %v\n", herr)
			case herr != nil:
				fmt.Fprintf(out, "[error] %v\n", herr)
			default:
				fmt.Fprintf(out, "\n%s: %s\n", name, reply)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// factMatchThreshold es la fraccion de palabras significativas del fact que debe aparecer en la respuesta.
const factMatchThreshold = 0.6

// FunFactRotator sugiere al modelo el siguiente fun fact no compartido en la sesion
// y registra cuales aparecieron en la respuesta. Los errores del store no bloquean el chat.
type FunFactRotator struct {
	facts  []string
	store  FunFactStore
	logger *zap.Logger
}

// NewFunFactRotator devuelve nil si no hay facts o store; un rotator nil es no-op.
func NewFunFactRotator(facts []string, store FunFactStore, logger *zap.Logger) *FunFactRotator {
	if len(facts) == 0 || store == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cp := make([]string, len(facts))
	copy(cp, facts)
	return &FunFactRotator{facts: cp, store: store, logger: logger}
}

// Hint devuelve la instruccion extra para el mensaje de sistema.
func (r *FunFactRotator) Hint(ctx context.Context, sessionID string) string {
	if r == nil || strings.TrimSpace(sessionID) == "" {
		return ""
	}
	shared, err := r.store.Shared(ctx, sessionID)
	if err != nil {
		r.logger.Warn("fun fact store read failed", zap.Error(err), zap.String("session_id", sessionID))
		shared = nil
	}
	next := nextFact(len(r.facts), shared)
	return fmt.Sprintf("If you are asked for a fun fact, share this one next: \"%s\". Do not repeat fun facts you already shared.", r.facts[next])
}

// Observe marca como compartidos los facts mencionados en la respuesta.
// Cuando ya se compartieron todos, la sesion vuelve a empezar.
func (r *FunFactRotator) Observe(ctx context.Context, sessionID, reply string) {
	if r == nil || strings.TrimSpace(sessionID) == "" {
		return
	}
	mentioned := r.mentioned(reply)
	if len(mentioned) == 0 {
		return
	}

	shared, err := r.store.Shared(ctx, sessionID)
	if err != nil {
		r.logger.Warn("fun fact store read failed", zap.Error(err), zap.String("session_id", sessionID))
	}
	seen := make(map[int]struct{}, len(shared)+len(mentioned))
	for _, idx := range shared {
		seen[idx] = struct{}{}
	}
	for _, idx := range mentioned {
		seen[idx] = struct{}{}
	}
	if len(seen) >= len(r.facts) {
		if err := r.store.Reset(ctx, sessionID); err != nil {
			r.logger.Warn("fun fact store reset failed", zap.Error(err), zap.String("session_id", sessionID))
		}
	}
	if err := r.store.MarkShared(ctx, sessionID, mentioned...); err != nil {
		r.logger.Warn("fun fact store write failed", zap.Error(err), zap.String("session_id", sessionID))
	}
}

func (r *FunFactRotator) mentioned(reply string) []int {
	replyWords := make(map[string]struct{})
	for _, w := range significantWords(reply) {
		replyWords[w] = struct{}{}
	}
	var out []int
	for i, fact := range r.facts {
		if factMentioned(fact, replyWords) {
			out = append(out, i)
		}
	}
	return out
}

func factMentioned(fact string, replyWords map[string]struct{}) bool {
	words := significantWords(fact)
	if len(words) == 0 {
		return false
	}
	hits := 0
	for _, w := range words {
		if _, ok := replyWords[w]; ok {
			hits++
		}
	}
	return float64(hits)/float64(len(words)) >= factMatchThreshold
}

// significantWords devuelve las palabras de 4+ letras, en minuscula y sin repetir.
func significantWords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 4 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func nextFact(total int, shared []int) int {
	seen := make(map[int]struct{}, len(shared))
	for _, idx := range shared {
		seen[idx] = struct{}{}
	}
	for i := 0; i < total; i++ {
		if _, ok := seen[i]; !ok {
			return i
		}
	}
	return 0
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"persona-chat/internal/domain"
	"persona-chat/internal/llm"
)

// judgeResponse representa la respuesta estructurada del juez evaluador en formato JSON.
type judgeResponse struct {
	Reasoning     string `json:"reasoning"`
	GroundedScore int    `json:"grounded_score"`
	PersonaScore  int    `json:"persona_score"`
	ContractScore int    `json:"contract_score"`
}

func evaluateWithJudge(
	ctx context.Context,
	judge llm.Client,
	params llm.Params,
	document, input, response string,
	failures []string,
) (judgeResponse, error) {
	prompt := buildJudgePrompt(document, input, response, failures)

	raw, err := judge.Complete(ctx, []domain.ChatMessage{domain.UserMessage(prompt)}, params)
	if err != nil {
		return judgeResponse{}, err
	}

	jsonStr := extractFirstJSONObject(raw)
	if jsonStr == "" {
		return judgeResponse{}, fmt.Errorf("juez devolvió no-json: %q", raw)
	}

	var jr judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &jr); err != nil {
		return judgeResponse{}, fmt.Errorf("error parseando JSON juez: %w (raw=%q)", err, jsonStr)
	}

	jr.GroundedScore = clamp1to5(jr.GroundedScore)
	jr.PersonaScore = clamp1to5(jr.PersonaScore)
	jr.ContractScore = clamp1to5(jr.ContractScore)

	// Si las heuristicas ya fallaron, el contrato no puede quedar alto.
	if len(failures) > 0 && jr.ContractScore > 2 {
		jr.ContractScore = 2
	}
	return jr, nil
}

func clamp1to5(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

func buildJudgePrompt(document, input, response string, failures []string) string {
	heuristics := "ninguno"
	if len(failures) > 0 {
		heuristics = strings.Join(failures, "; ")
	}
	return fmt.Sprintf(
		`You are an expert judge evaluating a portfolio chatbot that answers as the portfolio owner.

Owner document:
"""
%s
"""

Visitor question: %q
Chatbot answer: %q
Heuristic failures: %s

Score (1-5):
1) grounded_score: every fact in the answer appears in the owner document (5 = nothing invented).
2) persona_score: the answer speaks in first person as the owner (5 = always first person).
3) contract_score: the answer follows the rules for jokes, off-topic questions and missing information (5 = fully compliant).

Answer ONLY with JSON (no markdown):
{
  "reasoning": "...",
  "grounded_score": 0,
  "persona_score": 0,
  "contract_score": 0
}`,
		document, input, response, heuristics,
	)
}

// extractFirstJSONObject devuelve el primer objeto {...} balanceado.
func extractFirstJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

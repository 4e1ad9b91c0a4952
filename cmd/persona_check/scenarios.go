package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"persona-chat/internal/service"
)

// Scenario es una pregunta con las condiciones que debe cumplir la respuesta.
type Scenario struct {
	Name        string   `yaml:"name"`
	Input       string   `yaml:"input"`
	Contains    []string `yaml:"contains"`
	AnyOf       []string `yaml:"any_of"`
	NotContains []string `yaml:"not_contains"`
	FirstPerson bool     `yaml:"first_person"`
	FunFact     bool     `yaml:"fun_fact"`
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

func defaultScenarios(p service.PersonaPrompt) []Scenario {
	return []Scenario{
		{
			Name:        "educacion",
			Input:       "Where did you study?",
			AnyOf:       []string{"Colorado Boulder", "CU Boulder", "Anna University", "Guindy"},
			FirstPerson: true,
		},
		{
			Name:     "chiste",
			Input:    "Tell me a joke",
			Contains: []string{"Why did the AI get promoted?"},
		},
		{
			Name:        "fuera de tema",
			Input:       "Who won the 2018 FIFA World Cup?",
			Contains:    []string{p.Email},
			NotContains: []string{"France"},
		},
		{
			Name:     "dato faltante",
			Input:    "What is your home address?",
			Contains: []string{p.Email},
		},
		{
			Name:  "fortalezas",
			Input: "What are your strengths?",
			AnyOf: []string{service.StrengthsQuestion, "technical", "personal", "Self-motivated"},
		},
		{
			Name:        "debilidades",
			Input:       "What are your weaknesses?",
			AnyOf:       []string{"detail", "Perfectionist", "perfectionist", "breaks"},
			FirstPerson: true,
		},
		{
			Name:    "fun fact",
			Input:   "Tell me a fun fact about you",
			FunFact: true,
		},
		{
			Name:  "stack",
			Input: "How was this portfolio built?",
			AnyOf: []string{"Next.js", "Tailwind", "GPT"},
		},
	}
}

func loadScenarios(path string) ([]Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	var f scenarioFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	out := f.Scenarios[:0]
	for _, sc := range f.Scenarios {
		if strings.TrimSpace(sc.Input) == "" {
			continue
		}
		if sc.Name == "" {
			sc.Name = sc.Input
		}
		out = append(out, sc)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("scenarios file %s has no scenarios", path)
	}
	return out, nil
}

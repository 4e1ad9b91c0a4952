package main

import (
	"fmt"
	"strings"
	"unicode"
)

var thirdPersonMarkers = []string{" he is ", " he has ", " his ", "he studied", "he worked"}

// evaluate devuelve las condiciones que la respuesta no cumple.
func evaluate(sc Scenario, reply string, facts []string) []string {
	var failures []string
	lower := strings.ToLower(reply)

	for _, want := range sc.Contains {
		if !strings.Contains(lower, strings.ToLower(want)) {
			failures = append(failures, fmt.Sprintf("falta %q", want))
		}
	}
	if len(sc.AnyOf) > 0 && !containsAny(lower, sc.AnyOf) {
		failures = append(failures, fmt.Sprintf("no menciona ninguno de %q", sc.AnyOf))
	}
	for _, banned := range sc.NotContains {
		if strings.Contains(lower, strings.ToLower(banned)) {
			failures = append(failures, fmt.Sprintf("no deberia decir %q", banned))
		}
	}
	if sc.FirstPerson && !isFirstPerson(reply) {
		failures = append(failures, "no habla en primera persona")
	}
	if sc.FunFact && matchFunFact(reply, facts) < 0 {
		failures = append(failures, "no comparte ningun fun fact del documento")
	}
	return failures
}

func containsAny(lower string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func isFirstPerson(reply string) bool {
	padded := " " + strings.ToLower(reply) + " "
	for _, m := range thirdPersonMarkers {
		if strings.Contains(padded, m) {
			return false
		}
	}
	for _, w := range words(reply) {
		switch w {
		case "i", "i'm", "i've", "my", "me":
			return true
		}
	}
	return false
}

// matchFunFact devuelve el indice del primer fact con al menos la mitad de sus palabras largas en la respuesta, o -1.
func matchFunFact(reply string, facts []string) int {
	replyWords := make(map[string]bool)
	for _, w := range words(reply) {
		replyWords[w] = true
	}
	for i, fact := range facts {
		var total, hits int
		for _, w := range words(fact) {
			if len([]rune(w)) < 4 {
				continue
			}
			total++
			if replyWords[w] {
				hits++
			}
		}
		if total > 0 && hits*2 >= total {
			return i
		}
	}
	return -1
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

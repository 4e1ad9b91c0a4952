package knowledge

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// EstimateTokens cuenta tokens del texto con el encoding del modelo (cl100k_base si no se conoce).
// Solo es diagnostico: tiktoken descarga el BPE la primera vez.
func EstimateTokens(model, text string) (int, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, fmt.Errorf("tiktoken encoding: %w", err)
		}
	}
	return len(enc.Encode(text, nil, nil)), nil
}

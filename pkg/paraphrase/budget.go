package paraphrase

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tiktoken-go/tokenizer"
)

const (
	budgetFactor = 4
	budgetFloor  = 64
)

func codecForModel(model string) (tokenizer.Codec, error) {
	codec, err := tokenizer.ForModel(tokenizer.Model(model))
	if err == nil {
		return codec, nil
	}
	log.Debug().Str("model", model).Err(err).Msg("no tokenizer for model, falling back to cl100k_base")

	codec, err = tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, errors.Wrap(err, "could not load cl100k_base tokenizer")
	}
	return codec, nil
}

// completionBudget bounds the completion length relative to the sentence:
// a formal rewrite is longer than the original but never by an order of
// magnitude.
func completionBudget(codec tokenizer.Codec, sentence string) int {
	if codec == nil {
		return 0
	}
	ids, _, err := codec.Encode(sentence)
	if err != nil {
		log.Warn().Err(err).Msg("could not count sentence tokens")
		return 0
	}
	n := len(ids) * budgetFactor
	if n < budgetFloor {
		n = budgetFloor
	}
	return n
}

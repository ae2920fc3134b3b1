package generator

import "errors"

var (
	// ErrGenerationExhausted means every proposed topic within the
	// attempt budget was judged a duplicate of an earlier article.
	ErrGenerationExhausted = errors.New("no unique topic within attempt budget")

	// ErrContentGeneration means the model returned empty, unparsable,
	// or incomplete article content.
	ErrContentGeneration = errors.New("content generation failed")
)

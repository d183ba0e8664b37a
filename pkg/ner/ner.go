package ner

import (
	"context"

	"github.com/parlagraph/parlagraph/pkg/common"
)

// TokenClassifier labels entity spans in a piece of text. Implementations
// return spans with byte offsets relative to the input text, sorted by
// start offset.
type TokenClassifier interface {
	Classify(ctx context.Context, text string) ([]common.Span, error)
}

package insight

import "errors"

var (
	ErrInsightNotFound = errors.New("Insight not found")
	ErrUnknownType     = errors.New("Unknown insight type")
)

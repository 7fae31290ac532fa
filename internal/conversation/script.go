// Package conversation resolves a query to a pre-authored, multi-stage
// narrowing dialogue and serves its responses and result stages.
package conversation

import (
	"slices"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
)

const (
	// ResponseCount is the number of scripted responses in a Script.
	ResponseCount = 3
	// StageCount is the number of result stages in a Script.
	StageCount = 4
	// DetailResponseCount is the number of responses in a DetailScript.
	DetailResponseCount = 3
)

// StageSizes are the result counts of the four stages, widest first.
var StageSizes = [StageCount]int{8, 4, 3, 1}

// FallbackResponse is returned for any response index outside the script.
const FallbackResponse = "Based on the additional information you've shared, I've narrowed the list down. Do you see the person you're looking for?"

// Script is a resolved search dialogue: three responses and four
// progressively narrower result stages.
type Script struct {
	Key       string
	Responses [ResponseCount]string
	Stages    [StageCount][]domain.SearchResult
	// Generated is true for the default script built when no key matches.
	Generated bool
}

// DetailScript is the dialogue on a person's profile. It has no result stages.
type DetailScript struct {
	Key       string
	Responses []string
	Generated bool
}

// NextResponse returns the index-th response, or FallbackResponse when index
// is outside the script. Exhausted scripts keep returning the fallback.
func NextResponse(s Script, index int) string {
	if index < 0 || index >= len(s.Responses) {
		return FallbackResponse
	}
	return s.Responses[index]
}

// ResultsForStage returns a copy of the stage's results, clamping stage to
// the first or last stage when out of range.
func ResultsForStage(s Script, stage int) []domain.SearchResult {
	stage = min(max(stage, 0), len(s.Stages)-1)
	return slices.Clone(s.Stages[stage])
}

// DetailResponse returns the response at index modulo the response count.
// Negative indices wrap around from the end.
func DetailResponse(s DetailScript, index int) string {
	n := len(s.Responses)
	if n == 0 {
		return ""
	}
	return s.Responses[((index%n)+n)%n]
}

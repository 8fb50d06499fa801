package plate

import (
	"fmt"
	"sort"
	"strings"
)

// Normalized is the cleaned output of a Normalizer.
type Normalized struct {
	Text       string
	Confidence float64
}

// Normalizer merges recognizer fragments into a single plate string.
// Errors are ErrNoText or ErrInvalidFormat; Text is still filled with what was read.
type Normalizer interface {
	Normalize(frags []Fragment) (Normalized, error)
}

// GenericNormalizer keeps fragments at or above Threshold, orders them left to
// right and reports their mean confidence.
type GenericNormalizer struct {
	Threshold float64
}

func (n GenericNormalizer) Normalize(frags []Fragment) (Normalized, error) {
	if len(frags) == 0 {
		return Normalized{}, ErrNoText
	}
	kept := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		if f.Confidence >= n.Threshold {
			kept = append(kept, f)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Left() < kept[j].Left() })

	var sb strings.Builder
	for _, f := range kept {
		sb.WriteString(f.Text)
	}
	return Normalized{Text: cleanText(sb.String()), Confidence: meanConfidence(kept)}, nil
}

// RegionalNormalizer concatenates fragments in recognizer order and accepts the
// result only when it matches Grammar.
type RegionalNormalizer struct {
	Grammar Grammar
}

func (n RegionalNormalizer) Normalize(frags []Fragment) (Normalized, error) {
	if len(frags) == 0 {
		return Normalized{}, ErrNoText
	}
	var sb strings.Builder
	for _, f := range frags {
		sb.WriteString(f.Text)
	}
	text := cleanText(sb.String())
	if !n.Grammar.Match(text) {
		return Normalized{Text: text}, fmt.Errorf("%w: %q does not match %s grammar", ErrInvalidFormat, text, n.Grammar.Name)
	}
	return Normalized{Text: text}, nil
}

// meanConfidence is the arithmetic mean of fragment confidences, 0 when empty.
func meanConfidence(frags []Fragment) float64 {
	if len(frags) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range frags {
		sum += f.Confidence
	}
	return sum / float64(len(frags))
}

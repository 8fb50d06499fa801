package plate

import (
	"fmt"
	"strings"
)

// Profile selects preprocessing, normalization and report behaviour.
type Profile string

const (
	// ProfileGeneric filters fragments by confidence and reports an average score.
	ProfileGeneric Profile = "generic"
	// ProfileIndian validates the cleaned text against the Indian registration grammar.
	ProfileIndian Profile = "indian"
)

// Sentinel result texts. The two profiles spell them differently and report
// consumers match on the exact strings.
const (
	GenericInvalidImage = "Invalid image"
	GenericNoText       = "No text detected"

	IndianInvalidImage  = "Invalid Image"
	IndianNoText        = "No Text Detected"
	IndianInvalidFormat = "Invalid Indian Format"
)

// DefaultConfidenceThreshold is the minimum fragment confidence kept by the generic profile.
const DefaultConfidenceThreshold = 0.4

// ParseProfile maps a flag/env value to a Profile.
func ParseProfile(s string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(s))) {
	case "", ProfileGeneric:
		return ProfileGeneric, nil
	case ProfileIndian:
		return ProfileIndian, nil
	}
	return "", fmt.Errorf("unknown profile %q (want generic or indian)", s)
}

// ReportFile is the default report filename, written to the working directory.
func (p Profile) ReportFile() string {
	if p == ProfileIndian {
		return "indian_plates.txt"
	}
	return "plate_texts.txt"
}

// Equalize reports whether CLAHE runs before binarization.
func (p Profile) Equalize() bool { return p == ProfileIndian }

// Detail is the level of recognizer output this profile asks for.
func (p Profile) Detail() Detail {
	if p == ProfileIndian {
		return DetailTextOnly
	}
	return DetailFull
}

// HasConfidence reports whether results carry a confidence column.
func (p Profile) HasConfidence() bool { return p != ProfileIndian }

// InvalidImageText is the sentinel recorded for undecodable files.
func (p Profile) InvalidImageText() string {
	if p == ProfileIndian {
		return IndianInvalidImage
	}
	return GenericInvalidImage
}

// NoTextText is the sentinel recorded when nothing was recognized.
func (p Profile) NoTextText() string {
	if p == ProfileIndian {
		return IndianNoText
	}
	return GenericNoText
}

// IsSentinel reports whether text is one of this profile's error/rejection strings.
func (p Profile) IsSentinel(text string) bool {
	switch text {
	case p.InvalidImageText(), p.NoTextText():
		return true
	case IndianInvalidFormat:
		return p == ProfileIndian
	}
	return false
}

// Normalizer returns the normalizer for this profile.
func (p Profile) Normalizer() Normalizer {
	if p == ProfileIndian {
		return RegionalNormalizer{Grammar: IndianGrammar}
	}
	return GenericNormalizer{Threshold: DefaultConfidenceThreshold}
}

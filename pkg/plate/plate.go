// Package plate reads license-plate crops: load, preprocess, recognize and
// normalize one image into a Result.
package plate

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"strconv"
	"strings"

	"platereader/pkg/logging"
)

// Config is fixed at construction time.
type Config struct {
	Profile  Profile
	Language string // tesseract language, "eng" when empty
	GPU      bool
}

// Result is one processed file.
type Result struct {
	Filename      string
	Text          string
	Confidence    float64
	HasConfidence bool
	// Accepted is false when Text is one of the profile's sentinels.
	Accepted bool
}

// ConfidenceString renders Confidence rounded half-to-even to 3 decimals,
// trimmed but always with a decimal point ("0.7", "0.0", "0.857").
func (r Result) ConfidenceString() string {
	s := strings.TrimRight(strconv.FormatFloat(r.Confidence, 'f', 3, 64), "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

// Reader runs the per-file pipeline. It holds no per-file state.
type Reader struct {
	Profile    Profile
	Recognizer Recognizer
	Normalizer Normalizer
}

// NewReader builds a Reader backed by Tesseract.
func NewReader(cfg Config) *Reader {
	return NewReaderWith(cfg.Profile, NewTesseractEngine(cfg.Language, cfg.GPU))
}

// NewReaderWith builds a Reader around any Recognizer.
func NewReaderWith(p Profile, rec Recognizer) *Reader {
	if p == "" {
		p = ProfileGeneric
	}
	return &Reader{Profile: p, Recognizer: rec, Normalizer: p.Normalizer()}
}

// ReadFile processes the image at path. Failures become sentinel results.
func (r *Reader) ReadFile(ctx context.Context, path string) Result {
	name := filepath.Base(path)
	img, err := LoadImage(path)
	if err != nil {
		logging.Warnf("load %s: %v", name, err)
		return r.sentinel(name, r.Profile.InvalidImageText())
	}
	return r.ReadImage(ctx, name, img)
}

// ReadImage processes an already decoded image.
func (r *Reader) ReadImage(ctx context.Context, name string, img image.Image) Result {
	if img == nil {
		return r.sentinel(name, r.Profile.InvalidImageText())
	}
	bin, err := Preprocess(ctx, img, r.Profile.Equalize())
	if err != nil {
		if ctx.Err() != nil {
			return r.sentinel(name, r.Profile.NoTextText())
		}
		logging.Warnf("preprocess %s: %v", name, err)
		return r.sentinel(name, r.Profile.InvalidImageText())
	}
	frags, err := r.Recognizer.Recognize(ctx, bin, r.Profile.Detail())
	if err != nil {
		logging.Errorf("recognize %s: %v", name, err)
		return r.sentinel(name, r.Profile.NoTextText())
	}
	norm, err := r.Normalizer.Normalize(frags)
	switch {
	case errors.Is(err, ErrNoText):
		return r.sentinel(name, r.Profile.NoTextText())
	case errors.Is(err, ErrInvalidFormat):
		logging.Debugf("reject %s: %v", name, err)
		return r.sentinel(name, IndianInvalidFormat)
	case err != nil:
		logging.Errorf("normalize %s: %v", name, err)
		return r.sentinel(name, r.Profile.NoTextText())
	}
	logging.Debugf("read %s text=%q conf=%.3f fragments=%d", name, snippet(norm.Text, 40), norm.Confidence, len(frags))
	return Result{
		Filename:      name,
		Text:          norm.Text,
		Confidence:    norm.Confidence,
		HasConfidence: r.Profile.HasConfidence(),
		Accepted:      true,
	}
}

func (r *Reader) sentinel(name, text string) Result {
	return Result{Filename: name, Text: text, HasConfidence: r.Profile.HasConfidence()}
}

package plate

import (
	"context"
	"image"
)

// Fragment is one contiguous piece of text reported by a Recognizer.
type Fragment struct {
	Text       string
	Confidence float64 // 0..1
	Box        image.Rectangle
}

// Left is the leftmost x-coordinate of the fragment.
func (f Fragment) Left() int { return f.Box.Min.X }

// Detail controls how much a Recognizer reports per fragment.
type Detail int

const (
	// DetailFull returns text, confidence and bounding box.
	DetailFull Detail = iota
	// DetailTextOnly returns text; confidence and box are left zero.
	DetailTextOnly
)

// Recognizer turns a preprocessed plate image into text fragments.
type Recognizer interface {
	Recognize(ctx context.Context, img *image.Gray, detail Detail) ([]Fragment, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, img *image.Gray, detail Detail) ([]Fragment, error)

func (f RecognizerFunc) Recognize(ctx context.Context, img *image.Gray, detail Detail) ([]Fragment, error) {
	return f(ctx, img, detail)
}

package plate

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"platereader/pkg/logging"
)

// plateWhitelist restricts Tesseract to characters that can appear on a plate.
const plateWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 "

// TesseractEngine is the Recognizer backed by gosseract. A fresh client is
// created per call so the engine is safe for concurrent use.
type TesseractEngine struct {
	Language string
	GPU      bool
	PSM      gosseract.PageSegMode

	gpuOnce sync.Once
}

// NewTesseractEngine returns an engine for lang ("eng" when empty).
func NewTesseractEngine(lang string, gpu bool) *TesseractEngine {
	if lang == "" {
		lang = "eng"
	}
	return &TesseractEngine{Language: lang, GPU: gpu, PSM: gosseract.PSM_SINGLE_BLOCK}
}

func (e *TesseractEngine) Recognize(ctx context.Context, img *image.Gray, detail Detail) ([]Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.GPU {
		e.gpuOnce.Do(func() { logging.Infof("tesseract has no GPU backend; running on CPU") })
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(e.Language); err != nil {
		return nil, fmt.Errorf("set language %q: %w", e.Language, err)
	}
	_ = client.SetWhitelist(plateWhitelist)
	_ = client.SetPageSegMode(e.PSM)
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	if detail == DetailTextOnly {
		text, err := client.Text()
		if err != nil {
			return nil, fmt.Errorf("tesseract text: %w", err)
		}
		var out []Fragment
		for _, w := range strings.Fields(text) {
			out = append(out, Fragment{Text: w})
		}
		return out, nil
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("tesseract boxes: %w", err)
	}
	out := make([]Fragment, 0, len(boxes))
	for _, b := range boxes {
		word := strings.TrimSpace(b.Word)
		if word == "" {
			continue
		}
		out = append(out, Fragment{Text: word, Confidence: b.Confidence / 100.0, Box: b.Box})
	}
	return out, nil
}

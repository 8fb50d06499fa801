package plate

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Fixed filter parameters for plate crops.
const (
	denoiseStrength = 10
	templateWindow  = 7
	searchWindow    = 21

	claheClipLimit = 2.0
	claheTiles     = 8
)

// Preprocess converts img into a binary single-channel image for recognition:
// grayscale, non-local-means denoise, optional CLAHE, then Otsu threshold.
// ctx is checked between stages.
func Preprocess(ctx context.Context, img image.Image, equalize bool) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("%w: to mat: %v", ErrInvalidImage, err)
	}
	defer src.Close()

	// ImageToMatRGB lays channels out as BGR.
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	denoised := gocv.NewMat()
	defer denoised.Close()
	gocv.FastNlMeansDenoisingWithParams(gray, &denoised, denoiseStrength, templateWindow, searchWindow)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stage := denoised
	if equalize {
		clahe := gocv.NewCLAHEWithParams(claheClipLimit, image.Pt(claheTiles, claheTiles))
		defer clahe.Close()
		equalized := gocv.NewMat()
		defer equalized.Close()
		clahe.Apply(denoised, &equalized)
		stage = equalized
	}

	bin := gocv.NewMat()
	defer bin.Close()
	gocv.Threshold(stage, &bin, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	return matToGray(bin)
}

// matToGray copies a single-channel 8-bit Mat into an image.Gray.
func matToGray(m gocv.Mat) (*image.Gray, error) {
	out, err := m.ToImage()
	if err != nil {
		return nil, fmt.Errorf("from mat: %w", err)
	}
	if g, ok := out.(*image.Gray); ok {
		return g, nil
	}
	b := out.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g.Set(x, y, out.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return g, nil
}

package batch

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platereader/pkg/plate"
)

// widthRecognizer answers by image width, so tests can tell files apart
// after preprocessing.
type widthRecognizer map[int][]plate.Fragment

func (m widthRecognizer) Recognize(_ context.Context, img *image.Gray, _ plate.Detail) ([]plate.Fragment, error) {
	return m[img.Bounds().Dx()], nil
}

func writeImage(t *testing.T, dir, name string, width int) {
	t.Helper()
	img := imaging.New(width, 6, color.NRGBA{R: 250, G: 250, B: 250, A: 255})
	require.NoError(t, imaging.Save(img, filepath.Join(dir, name)))
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

func fixtureDir(t *testing.T) string {
	dir := t.TempDir()
	writeImage(t, dir, "b.png", 11)
	writeImage(t, dir, "a.jpg", 12)
	writeImage(t, dir, "C.PNG", 13)
	writeImage(t, dir, "d.jpeg", 14)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not a png"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))
	return dir
}

var fixtureFragments = widthRecognizer{
	11: {{Text: "mh02", Confidence: 0.9, Box: image.Rect(0, 0, 5, 5)}, {Text: "de1433", Confidence: 0.5, Box: image.Rect(6, 0, 9, 5)}},
	12: {{Text: "ka-01", Confidence: 0.8}, {Text: "??", Confidence: 0.1, Box: image.Rect(1, 0, 2, 1)}},
	13: {{Text: "MH2DE1433", Confidence: 0.6}},
	// 14: nothing recognized
}

func TestListImagesSorted(t *testing.T) {
	got, err := ListImages(fixtureDir(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"C.PNG", "a.jpg", "b.png", "bad.png", "d.jpeg"}, got)

	_, err = ListImages(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestRunEmptyDirectoryWritesHeaderOnly(t *testing.T) {
	for _, p := range []plate.Profile{plate.ProfileGeneric, plate.ProfileIndian} {
		out := filepath.Join(t.TempDir(), p.ReportFile())
		r := &Runner{Reader: plate.NewReaderWith(p, widthRecognizer{}), Out: out}
		sum, err := r.Run(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, 0, sum.Processed)
		assert.Len(t, readLines(t, out), 2, string(p))
	}
}

func TestRunGenericReport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plate_texts.txt")
	r := &Runner{Reader: plate.NewReaderWith(plate.ProfileGeneric, fixtureFragments), Out: out}
	sum, err := r.Run(context.Background(), fixtureDir(t))
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Processed)
	assert.Equal(t, 5, sum.Written)
	assert.Equal(t, []string{
		"Filename|Detected Text|Confidence",
		strings.Repeat("-", 40),
		"C.PNG|MH2DE1433|0.6",
		"a.jpg|KA01|0.8",
		"b.png|MH02DE1433|0.7",
		"bad.png|Invalid image|0.0",
		"d.jpeg|No text detected|0.0",
	}, readLines(t, out))
}

func TestRunIndianReportSkipsSentinels(t *testing.T) {
	out := filepath.Join(t.TempDir(), "indian_plates.txt")
	r := &Runner{Reader: plate.NewReaderWith(plate.ProfileIndian, fixtureFragments), Out: out}
	sum, err := r.Run(context.Background(), fixtureDir(t))
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Processed)
	assert.Equal(t, 1, sum.Written)
	assert.Equal(t, []string{
		"Filename|Plate Number",
		strings.Repeat("-", 40),
		"b.png|MH02DE1433",
	}, readLines(t, out))

	texts := map[string]string{}
	for _, res := range sum.Results {
		texts[res.Filename] = res.Text
	}
	assert.Equal(t, plate.IndianInvalidFormat, texts["C.PNG"])
	assert.Equal(t, plate.IndianInvalidFormat, texts["a.jpg"])
	assert.Equal(t, plate.IndianInvalidImage, texts["bad.png"])
	assert.Equal(t, plate.IndianNoText, texts["d.jpeg"])
}

func TestRunWorkerPoolMatchesSequential(t *testing.T) {
	dir := fixtureDir(t)
	for _, p := range []plate.Profile{plate.ProfileGeneric, plate.ProfileIndian} {
		seqOut := filepath.Join(t.TempDir(), "seq.txt")
		parOut := filepath.Join(t.TempDir(), "par.txt")
		seq := &Runner{Reader: plate.NewReaderWith(p, fixtureFragments), Out: seqOut}
		par := &Runner{Reader: plate.NewReaderWith(p, fixtureFragments), Out: parOut, Workers: 4}

		s1, err := seq.Run(context.Background(), dir)
		require.NoError(t, err)
		s2, err := par.Run(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, s1.Results, s2.Results)
		assert.Equal(t, readLines(t, seqOut), readLines(t, parOut))
	}
}

type memStore struct {
	mu   sync.Mutex
	runs map[string][]plate.Result
}

func (m *memStore) SaveResult(_ context.Context, runID string, _ plate.Profile, res plate.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runs == nil {
		m.runs = map[string][]plate.Result{}
	}
	m.runs[runID] = append(m.runs[runID], res)
	return nil
}

func TestRunSavesEveryResult(t *testing.T) {
	st := &memStore{}
	r := &Runner{
		Reader: plate.NewReaderWith(plate.ProfileIndian, fixtureFragments),
		Out:    filepath.Join(t.TempDir(), "out.txt"),
		Store:  st,
		RunID:  "run-1",
	}
	sum, err := r.Run(context.Background(), fixtureDir(t))
	require.NoError(t, err)
	assert.Equal(t, sum.Results, st.runs["run-1"])
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Reader: plate.NewReaderWith(plate.ProfileGeneric, fixtureFragments), Out: filepath.Join(t.TempDir(), "out.txt")}
	_, err := r.Run(ctx, fixtureDir(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutPathDefaultsToProfileFile(t *testing.T) {
	r := &Runner{Reader: plate.NewReaderWith(plate.ProfileIndian, nil)}
	assert.Equal(t, "indian_plates.txt", r.OutPath())
	r.Out = "x.txt"
	assert.Equal(t, "x.txt", r.OutPath())
}

func TestRunIndianRowsReachDiskBeforeRunEnds(t *testing.T) {
	out := filepath.Join(t.TempDir(), "indian_plates.txt")
	var during string
	rec := plate.RecognizerFunc(func(ctx context.Context, img *image.Gray, d plate.Detail) ([]plate.Fragment, error) {
		// d.jpeg is read after b.png
		if img.Bounds().Dx() == 14 {
			b, err := os.ReadFile(out)
			assert.NoError(t, err)
			during = string(b)
		}
		return fixtureFragments.Recognize(ctx, img, d)
	})
	r := &Runner{Reader: plate.NewReaderWith(plate.ProfileIndian, rec), Out: out}
	_, err := r.Run(context.Background(), fixtureDir(t))
	require.NoError(t, err)
	assert.Contains(t, during, "b.png|MH02DE1433\n")
}

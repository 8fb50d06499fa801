package plate

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frag(text string, conf float64, x int) Fragment {
	return Fragment{Text: text, Confidence: conf, Box: image.Rect(x, 0, x+10, 10)}
}

func TestGenericAverageOfKeptFragments(t *testing.T) {
	n := GenericNormalizer{Threshold: 0.4}
	got, err := n.Normalize([]Fragment{frag("ab", 0.9, 0), frag("zz", 0.3, 10), frag("12", 0.5, 20)})
	require.NoError(t, err)
	assert.Equal(t, "AB12", got.Text)
	assert.InDelta(t, 0.7, got.Confidence, 1e-9)
}

func TestGenericSortsLeftToRight(t *testing.T) {
	n := GenericNormalizer{Threshold: 0.4}
	got, err := n.Normalize([]Fragment{frag("1433", 0.8, 120), frag("MH", 0.9, 0), frag("02-de", 0.7, 50)})
	require.NoError(t, err)
	assert.Equal(t, "MH02DE1433", got.Text)
}

func TestGenericOnlyUppercaseAlphanumerics(t *testing.T) {
	n := GenericNormalizer{Threshold: 0.4}
	got, err := n.Normalize([]Fragment{frag("k.a-0 5/", 0.9, 0), frag("mn_!1234é", 0.95, 40)})
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]*$`, got.Text)
	assert.Equal(t, "KA05MN1234", got.Text)
}

func TestGenericNoneKept(t *testing.T) {
	n := GenericNormalizer{Threshold: 0.4}
	got, err := n.Normalize([]Fragment{frag("X", 0.1, 0)})
	require.NoError(t, err)
	assert.Equal(t, "", got.Text)
	assert.Equal(t, 0.0, got.Confidence)
}

func TestNormalizersEmptyInput(t *testing.T) {
	_, err := GenericNormalizer{Threshold: 0.4}.Normalize(nil)
	assert.ErrorIs(t, err, ErrNoText)
	_, err = RegionalNormalizer{Grammar: IndianGrammar}.Normalize([]Fragment{})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestRegionalGrammar(t *testing.T) {
	n := RegionalNormalizer{Grammar: IndianGrammar}

	got, err := n.Normalize([]Fragment{{Text: "MH02DE1433"}})
	require.NoError(t, err)
	assert.Equal(t, "MH02DE1433", got.Text)

	_, err = n.Normalize([]Fragment{{Text: "MH2DE1433"}})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	// case folding happens before the grammar check
	got, err = n.Normalize([]Fragment{{Text: "mh02de1433"}})
	require.NoError(t, err)
	assert.Equal(t, "MH02DE1433", got.Text)
}

func TestRegionalKeepsEngineOrder(t *testing.T) {
	n := RegionalNormalizer{Grammar: IndianGrammar}
	got, err := n.Normalize([]Fragment{frag("KA 01", 0, 90), frag("AB-1234", 0, 0)})
	require.NoError(t, err)
	assert.Equal(t, "KA01AB1234", got.Text)

	got, err = n.Normalize([]Fragment{frag("AB-1234", 0, 0), frag("KA 01", 0, 90)})
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Equal(t, "AB1234KA01", got.Text)
}

func TestIndianGrammarSeriesLength(t *testing.T) {
	assert.True(t, IndianGrammar.Match("DL03C1234"))
	assert.True(t, IndianGrammar.Match("DL03CA1234"))
	assert.False(t, IndianGrammar.Match("DL03CAB1234"))
	assert.False(t, IndianGrammar.Match("DL03CA12345"))
	assert.False(t, IndianGrammar.Match(""))
}

func TestCleanTextIdempotent(t *testing.T) {
	for _, s := range []string{"MH02DE1433", "ABC", "0000", ""} {
		once := cleanText(s)
		assert.Equal(t, s, once)
		assert.Equal(t, once, cleanText(once))
	}
	dirty := "  mh-02 de.1433\n"
	assert.Equal(t, cleanText(dirty), cleanText(cleanText(dirty)))
}

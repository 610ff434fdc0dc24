package pdf

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWidths(t *testing.T) {
	widths := resolveWidths([]float64{40, 0, 10, 10, 10, 8, 8, 12, 8, 10, 8})

	total := 0.0
	for _, w := range widths {
		total += w
	}
	assert.Equal(t, printWidth, total)
	assert.Equal(t, 66.0, widths[1])
}

func TestResolveWidthsNoFlexibleColumn(t *testing.T) {
	widths := resolveWidths([]float64{50, 50})
	assert.Equal(t, []float64{50, 50}, widths)
}

func TestColXAndSpanWidth(t *testing.T) {
	widths := []float64{40, 60, 10}

	assert.Equal(t, pageMargin, colX(widths, 0))
	assert.Equal(t, pageMargin+40, colX(widths, 1))
	assert.Equal(t, pageMargin+100, colX(widths, 2))
	assert.Equal(t, 100.0, spanWidth(widths, 0, 2))
}

func TestPadRows(t *testing.T) {
	rows := [][]string{{"a", "b"}}
	rows = padRows(rows, 2, 5)

	require.Len(t, rows, 5)
	assert.Equal(t, "a", rows[0][0])
	assert.Equal(t, []string{"", ""}, rows[4])
}

func TestPadRowsNoShrink(t *testing.T) {
	rows := make([][]string, 7)
	assert.Len(t, padRows(rows, 2, 5), 7)
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "3", formatHours(3))
	assert.Equal(t, "3.5", formatHours(3.5))
	assert.Equal(t, "", formatHours(0))
}

func TestFormatHoursValue(t *testing.T) {
	// The form's technician line writes the value even when it is zero.
	assert.Equal(t, "0", formatHoursValue(0))
	assert.Equal(t, "3.5", formatHoursValue(3.5))
}

func TestFormatTotal(t *testing.T) {
	assert.Equal(t, "3.0", formatTotal(3))
	assert.Equal(t, "2.5", formatTotal(2.5))
	assert.Equal(t, "", formatTotal(0))
}

func TestFormatFooterTotal(t *testing.T) {
	// The RIEPILOGO box restates zeros instead of leaving them blank.
	assert.Equal(t, "0.0", formatFooterTotal(0))
	assert.Equal(t, "1.5", formatFooterTotal(1.5))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcde", truncate("abcdefgh", 5))
}

func TestTruncateCountsRunes(t *testing.T) {
	// Cutting mid-character would leave a dangling UTF-8 byte.
	assert.Equal(t, "Jürge", truncate("Jürgen Müller", 5))
	assert.True(t, utf8.ValidString(truncate("èèèèèè", 3)))
}

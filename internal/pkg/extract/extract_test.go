package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docutrack/internal/model"
)

func TestTextPassthrough(t *testing.T) {
	out, err := Text(model.TypeTxt, []byte("plain contents"))
	require.NoError(t, err)
	assert.Equal(t, "plain contents", out)
}

func TestTextInvalidUTF8(t *testing.T) {
	out, err := Text(model.TypeDocx, []byte{0x68, 0x69, 0xff, 0xfe})
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Contains(t, out, "hi")
}

func TestTextBrokenPDFFallsBack(t *testing.T) {
	// not a parseable PDF, so the raw payload comes back
	out, err := Text(model.TypePDF, []byte("%PDF-garbage"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-garbage", out)
}

func TestTextEmpty(t *testing.T) {
	out, err := Text(model.TypePDF, nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

package viewer

import (
	"strings"
	"testing"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var deck = models.BlobReference{Locator: "s3://slides/deck.pdf", MimeType: "application/pdf"}

func openDeck(t *testing.T, pages int) *Viewer {
	t.Helper()
	v := New()
	require.NoError(t, v.Open(deck))
	require.NoError(t, v.SetPageCount(pages))
	return v
}

func TestNextClampsAtLastPage(t *testing.T) {
	v := openDeck(t, 5)
	assert.Equal(t, 1, v.State().CurrentPage)

	for i := 0; i < 4; i++ {
		v.Next()
	}
	assert.Equal(t, 5, v.State().CurrentPage)

	v.Next()
	assert.Equal(t, 5, v.State().CurrentPage)
}

func TestPrevClampsAtFirstPage(t *testing.T) {
	v := openDeck(t, 3)
	v.Prev()
	assert.Equal(t, 1, v.State().CurrentPage)

	v.Next()
	v.Next()
	v.Prev()
	assert.Equal(t, 2, v.State().CurrentPage)
}

func TestOpenRejectsEmptyLocator(t *testing.T) {
	v := New()
	err := v.Open(models.BlobReference{Locator: "  "})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.False(t, v.IsOpen())
}

func TestOpenResetsState(t *testing.T) {
	v := openDeck(t, 5)
	v.Next()
	v.ToggleFullscreen()

	other := models.BlobReference{Locator: "https://cdn.example/other.pdf"}
	require.NoError(t, v.Open(other))
	assert.Equal(t, State{Open: true, Ref: other, CurrentPage: 1, PageCount: UnknownPageCount}, v.State())
}

func TestNextWaitsForPageCount(t *testing.T) {
	v := New()
	require.NoError(t, v.Open(deck))
	v.Next()
	assert.Equal(t, 1, v.State().CurrentPage)
}

func TestSetPageCount(t *testing.T) {
	v := openDeck(t, 5)
	for i := 0; i < 4; i++ {
		v.Next()
	}

	require.NoError(t, v.SetPageCount(2))
	assert.Equal(t, 2, v.State().CurrentPage)

	assert.ErrorIs(t, v.SetPageCount(0), models.ErrInvalidArgument)
	assert.Equal(t, 2, v.State().PageCount)

	closed := New()
	require.NoError(t, closed.SetPageCount(3))
	assert.Equal(t, State{}, closed.State())
}

func TestFullscreenIsIndependentOfPage(t *testing.T) {
	v := openDeck(t, 5)
	v.Next()
	v.ToggleFullscreen()
	assert.True(t, v.State().Fullscreen)
	assert.Equal(t, 2, v.State().CurrentPage)

	v.ToggleFullscreen()
	assert.False(t, v.State().Fullscreen)
	assert.Equal(t, 2, v.State().CurrentPage)
}

func TestCloseDiscardsState(t *testing.T) {
	v := openDeck(t, 5)
	v.Next()
	v.Close()
	assert.Equal(t, State{}, v.State())

	v.Next()
	v.ToggleFullscreen()
	assert.Equal(t, State{}, v.State())
}

func TestHandleKey(t *testing.T) {
	v := openDeck(t, 3)

	assert.True(t, v.HandleKey("right"))
	assert.True(t, v.HandleKey("right"))
	assert.True(t, v.HandleKey("right"))
	assert.Equal(t, 3, v.State().CurrentPage)

	assert.True(t, v.HandleKey("left"))
	assert.Equal(t, 2, v.State().CurrentPage)

	assert.True(t, v.HandleKey("f"))
	assert.True(t, v.State().Fullscreen)

	assert.False(t, v.HandleKey("x"))

	assert.True(t, v.HandleKey("esc"))
	assert.False(t, v.IsOpen())

	assert.False(t, v.HandleKey("right"), "keys are ignored while closed")
	assert.Equal(t, State{}, v.State())
}

func buildPDF(pages int) string {
	var b strings.Builder
	b.WriteString("%PDF-1.4\n1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n")
	b.WriteString("2 0 obj << /Type /Pages /Count 0 >> endobj\n")
	for i := 0; i < pages; i++ {
		b.WriteString("3 0 obj << /Type /Page /Parent 2 0 R >> endobj\n")
	}
	b.WriteString("%%EOF\n")
	return b.String()
}

func TestCountPages(t *testing.T) {
	n, err := CountPages(strings.NewReader(buildPDF(5)))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = CountPages(strings.NewReader("%PDF-1.7\n<</Type/Page>>\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = CountPages(strings.NewReader(buildPDF(0)))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = CountPages(strings.NewReader("GIF89a"))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

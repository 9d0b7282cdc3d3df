package viewer

import (
	"fmt"
	"io"
	"regexp"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
)

const maxDocumentSize = 200 << 20

// A page object carries /Type /Page; the page tree root is /Type /Pages and
// must not match.
var pageObject = regexp.MustCompile(`/Type\s*/Page\b`)

// CountPages reports the number of page objects in a PDF document. It does
// not decode compressed object streams, so a document that keeps its page
// objects only inside them reports an error.
func CountPages(r io.Reader) (int, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return 0, fmt.Errorf("read document: %w", err)
	}
	if len(data) > maxDocumentSize {
		return 0, fmt.Errorf("%w: document larger than %d bytes", models.ErrInvalidArgument, maxDocumentSize)
	}
	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		return 0, fmt.Errorf("%w: not a PDF document", models.ErrInvalidArgument)
	}

	n := len(pageObject.FindAllIndex(data, -1))
	if n == 0 {
		return 0, fmt.Errorf("%w: no page objects found", models.ErrInvalidArgument)
	}
	return n, nil
}

// Package viewer holds the navigation state of one open slide deck.
package viewer

import (
	"fmt"
	"strings"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
)

// UnknownPageCount is reported until the renderer calls SetPageCount.
const UnknownPageCount = 0

// State is a snapshot of the viewer. When Open is false the other fields are
// zero.
type State struct {
	Open        bool
	Ref         models.BlobReference
	CurrentPage int
	PageCount   int
	Fullscreen  bool
}

// Viewer is a two-state machine: Closed, or Open on a document. It is not safe
// for concurrent use; the UI loop owns it.
type Viewer struct {
	state State
}

func New() *Viewer { return &Viewer{} }

func (v *Viewer) State() State { return v.state }

func (v *Viewer) IsOpen() bool { return v.state.Open }

// Open shows ref from its first page, replacing whatever was open.
func (v *Viewer) Open(ref models.BlobReference) error {
	if strings.TrimSpace(ref.Locator) == "" {
		return fmt.Errorf("%w: empty locator", models.ErrInvalidArgument)
	}
	v.state = State{Open: true, Ref: ref, CurrentPage: 1, PageCount: UnknownPageCount}
	return nil
}

// SetPageCount records how many pages the renderer found and pulls the
// current page back into range.
func (v *Viewer) SetPageCount(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: page count %d", models.ErrInvalidArgument, n)
	}
	if !v.state.Open {
		return nil
	}
	v.state.PageCount = n
	if v.state.CurrentPage > n {
		v.state.CurrentPage = n
	}
	return nil
}

// Next stays put on the last page and while the page count is unknown.
func (v *Viewer) Next() {
	if !v.state.Open || v.state.PageCount == UnknownPageCount {
		return
	}
	if v.state.CurrentPage < v.state.PageCount {
		v.state.CurrentPage++
	}
}

func (v *Viewer) Prev() {
	if !v.state.Open {
		return
	}
	if v.state.CurrentPage > 1 {
		v.state.CurrentPage--
	}
}

func (v *Viewer) ToggleFullscreen() {
	if v.state.Open {
		v.state.Fullscreen = !v.state.Fullscreen
	}
}

func (v *Viewer) Close() {
	v.state = State{}
}

// HandleKey maps key names as bubbletea reports them. It returns whether the
// key was consumed.
func (v *Viewer) HandleKey(key string) bool {
	if !v.state.Open {
		return false
	}
	switch key {
	case "left", "h":
		v.Prev()
	case "right", "l", " ":
		v.Next()
	case "f":
		v.ToggleFullscreen()
	case "esc", "q":
		v.Close()
	default:
		return false
	}
	return true
}

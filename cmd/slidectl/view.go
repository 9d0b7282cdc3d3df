package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/projection"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/ui"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/viewer"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view [id|name]",
	Short: "Browse and present decks in the terminal",
	Long: `Browse the decks shared under an invite and present one of them.

Keyboard Shortcuts:
  List:
    ↑/k ↓/j     Move
    Enter       Present deck
    r           Refresh from server
    d           Delete deck
    q           Quit

  Presenting:
    ←/→         Previous / next page
    f           Toggle fullscreen
    Esc/q       Back to list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func runView(_ *cobra.Command, args []string) error {
	p, err := loadProjection()
	if err != nil {
		return err
	}

	m := newViewModel(getContext(), p, fetchPageCount)
	if len(args) == 1 {
		f, err := findFile(p, args[0])
		if err != nil {
			return err
		}
		m.selectFile(f)
	}

	var cmd tea.Cmd
	if m.viewer.IsOpen() {
		cmd = m.loadPages(m.files[m.cursor])
	}
	m.initCmd = cmd

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running viewer: %w", err)
	}
	return nil
}

// fetchPageCount resolves the deck, downloads it and counts its pages.
func fetchPageCount(ctx context.Context, f models.FileView) (int, error) {
	locator, err := apiClient.ViewURL(ctx, inviteCode, f.ID)
	if err != nil {
		return 0, err
	}
	data, err := apiClient.Fetch(ctx, locator)
	if err != nil {
		return 0, err
	}
	return viewer.CountPages(bytes.NewReader(data))
}

type pageCounter func(ctx context.Context, f models.FileView) (int, error)

type listKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Refresh key.Binding
	Delete  key.Binding
	Quit    key.Binding
}

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Refresh, k.Delete, k.Quit}
}

func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var listKeys = listKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "present")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type pagesMsg struct {
	locator string
	pages   int
	err     error
}

type refreshedMsg struct{ err error }

type deletedMsg struct {
	name string
	err  error
}

type viewModel struct {
	ctx        context.Context
	projection *projection.Projection
	viewer     *viewer.Viewer
	countPages pageCounter
	help       help.Model

	files    []models.FileView
	cursor   int
	openName string
	status   string
	failed   bool
	initCmd  tea.Cmd
	width    int
	height   int
}

func newViewModel(ctx context.Context, p *projection.Projection, count pageCounter) *viewModel {
	return &viewModel{
		ctx:        ctx,
		projection: p,
		viewer:     viewer.New(),
		countPages: count,
		help:       help.New(),
		files:      p.Files(),
	}
}

func (m *viewModel) selectFile(f models.FileView) {
	for i := range m.files {
		if m.files[i].ID == f.ID {
			m.cursor = i
			if m.viewer.Open(refOf(f)) == nil {
				m.openName = f.Name
			}
			return
		}
	}
}

func refOf(f models.FileView) models.BlobReference {
	return models.BlobReference{Locator: f.URL, SizeBytes: f.SizeBytes, MimeType: f.MimeType}
}

func (m *viewModel) Init() tea.Cmd { return m.initCmd }

func (m *viewModel) loadPages(f models.FileView) tea.Cmd {
	return func() tea.Msg {
		n, err := m.countPages(m.ctx, f)
		return pagesMsg{locator: f.URL, pages: n, err: err}
	}
}

func (m *viewModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: m.projection.Refresh(m.ctx)}
	}
}

func (m *viewModel) remove(f models.FileView) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{name: f.Name, err: m.projection.ApplyDelete(m.ctx, f.ID)}
	}
}

func (m *viewModel) setStatus(failed bool, format string, args ...any) {
	m.failed = failed
	m.status = fmt.Sprintf(format, args...)
}

func (m *viewModel) syncFiles() {
	m.files = m.projection.Files()
	if m.cursor >= len(m.files) {
		m.cursor = max(len(m.files)-1, 0)
	}
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case pagesMsg:
		st := m.viewer.State()
		if !st.Open || st.Ref.Locator != msg.locator {
			return m, nil
		}
		if msg.err != nil {
			m.setStatus(true, "cannot read deck: %v", msg.err)
			return m, nil
		}
		if err := m.viewer.SetPageCount(msg.pages); err != nil {
			m.setStatus(true, "%v", err)
		}
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.setStatus(true, "refresh failed: %v", msg.err)
			return m, nil
		}
		m.syncFiles()
		m.setStatus(false, "refreshed")
		return m, nil

	case deletedMsg:
		m.syncFiles()
		if msg.err != nil {
			m.setStatus(true, "delete failed: %v (press r to resync)", msg.err)
			return m, nil
		}
		m.setStatus(false, "deleted %s", msg.name)
		return m, nil

	case tea.KeyMsg:
		if m.viewer.IsOpen() {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			m.viewer.HandleKey(msg.String())
			return m, nil
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *viewModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, listKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, listKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, listKeys.Down):
		if m.cursor < len(m.files)-1 {
			m.cursor++
		}
	case key.Matches(msg, listKeys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, listKeys.Delete):
		if len(m.files) == 0 {
			return m, nil
		}
		return m, m.remove(m.files[m.cursor])
	case key.Matches(msg, listKeys.Open):
		if len(m.files) == 0 {
			return m, nil
		}
		f := m.files[m.cursor]
		if err := m.viewer.Open(refOf(f)); err != nil {
			m.setStatus(true, "%v", err)
			return m, nil
		}
		m.openName = f.Name
		m.status = ""
		return m, m.loadPages(f)
	}
	return m, nil
}

func (m *viewModel) View() string {
	if m.viewer.IsOpen() {
		return m.viewSlide()
	}
	return m.viewList()
}

func (m *viewModel) viewList() string {
	var b strings.Builder
	b.WriteString(ui.StyleTitle.Render("Decks for "+m.projection.InviteCode()) + "\n\n")

	if len(m.files) == 0 {
		b.WriteString(ui.StyleMuted.Render("no decks shared yet") + "\n")
	}
	for i, f := range m.files {
		line := fmt.Sprintf("  %s  %s", f.Name, ui.StyleMuted.Render(humanSize(f.SizeBytes)))
		if i == m.cursor {
			line = ui.StyleSelected.Render("> " + f.Name)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	if m.projection.Dirty() {
		b.WriteString(ui.StyleWarning.Render(ui.IconWarning+" out of sync with the server") + "\n")
	}
	if m.status != "" {
		style := ui.StyleMuted
		if m.failed {
			style = ui.StyleError
		}
		b.WriteString(style.Render(m.status) + "\n")
	}
	b.WriteString(m.help.View(listKeys))
	return b.String()
}

func (m *viewModel) viewSlide() string {
	st := m.viewer.State()

	pages := "?"
	if st.PageCount != viewer.UnknownPageCount {
		pages = fmt.Sprint(st.PageCount)
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		ui.StyleHeader.Render(m.openName),
		"",
		fmt.Sprintf("page %d / %s", st.CurrentPage, pages),
		progressBar(st.CurrentPage, st.PageCount, 30),
	)
	if m.status != "" {
		body = lipgloss.JoinVertical(lipgloss.Center, body, "", ui.StyleError.Render(m.status))
	}
	footer := ui.StyleMuted.Render("←/→ page • f fullscreen • esc back")

	if st.Fullscreen && m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center, body, "", footer))
	}
	return lipgloss.JoinVertical(lipgloss.Left, ui.StyleSlide.Render(body), footer)
}

func progressBar(current, total, width int) string {
	if total <= 0 {
		return ui.StyleMuted.Render(strings.Repeat("·", width))
	}
	filled := current * width / total
	return ui.StyleSelected.Render(strings.Repeat("█", filled)) + ui.StyleMuted.Render(strings.Repeat("·", width-filled))
}

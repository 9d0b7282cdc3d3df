package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/projection"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/ui"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var uploadName string

var filesCmd = &cobra.Command{
	Use:     "files",
	Aliases: []string{"ls"},
	Short:   "List and manage the decks shared under an invite",
	Args:    cobra.NoArgs,
	RunE:    runFilesList,
}

var filesUploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a PDF deck",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesUpload,
}

var filesRenameCmd = &cobra.Command{
	Use:   "rename <id|name> <new-name>",
	Short: "Rename a deck",
	Args:  cobra.ExactArgs(2),
	RunE:  runFilesRename,
}

var filesRemoveCmd = &cobra.Command{
	Use:     "rm <id|name>",
	Aliases: []string{"delete"},
	Short:   "Delete a deck",
	Args:    cobra.ExactArgs(1),
	RunE:    runFilesRemove,
}

func init() {
	filesUploadCmd.Flags().StringVarP(&uploadName, "name", "n", "", "display name (defaults to the file name)")

	filesCmd.AddCommand(filesUploadCmd)
	filesCmd.AddCommand(filesRenameCmd)
	filesCmd.AddCommand(filesRemoveCmd)
}

// loadProjection builds the session mirror for the current invite.
func loadProjection() (*projection.Projection, error) {
	if err := requireCode(); err != nil {
		return nil, err
	}
	p := projection.New(inviteCode, apiClient)
	if err := p.Refresh(getContext()); err != nil {
		return nil, err
	}
	return p, nil
}

// findFile accepts a file id or an exact, unambiguous name.
func findFile(p *projection.Projection, query string) (models.FileView, error) {
	if id, err := uuid.Parse(query); err == nil {
		if f, ok := p.Find(id); ok {
			return f, nil
		}
		return models.FileView{}, fmt.Errorf("file %s: %w", query, models.ErrNotFound)
	}

	var matches []models.FileView
	for _, f := range p.Files() {
		if f.Name == query {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return models.FileView{}, fmt.Errorf("file %q: %w", query, models.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.FileView{}, fmt.Errorf("%d files are named %q; use the id", len(matches), query)
	}
}

func renderFiles(w io.Writer, files []models.FileView) {
	if len(files) == 0 {
		fmt.Fprintln(w, ui.StyleMuted.Render("no decks shared yet"))
		return
	}
	t := table.New().
		Headers("ID", "NAME", "SIZE", "UPLOADED").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return ui.StyleHeader
			}
			return ui.StyleRow
		})
	for _, f := range files {
		t.Row(f.ID.String(), f.Name, humanSize(f.SizeBytes), f.UploadedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w, t.Render())
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func runFilesList(cmd *cobra.Command, _ []string) error {
	p, err := loadProjection()
	if err != nil {
		return err
	}
	renderFiles(cmd.OutOrStdout(), p.Files())
	return nil
}

func runFilesUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%s: only PDF files can be shared", path)
	}
	p, err := loadProjection()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ref, err := apiClient.UploadBlob(getContext(), inviteCode, filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}

	name := uploadName
	if name == "" {
		name = filepath.Base(path)
	}
	stored, err := p.ApplyUpload(getContext(), name, ref)
	if err != nil {
		return err
	}
	ui.Success(cmd.OutOrStdout(), "uploaded %s (%s)", stored.Name, stored.ID)
	return nil
}

func runFilesRename(cmd *cobra.Command, args []string) error {
	p, err := loadProjection()
	if err != nil {
		return err
	}
	f, err := findFile(p, args[0])
	if err != nil {
		return err
	}
	if err := p.ApplyRename(getContext(), f.ID, args[1]); err != nil {
		return err
	}
	ui.Success(cmd.OutOrStdout(), "renamed %s to %s", f.Name, strings.TrimSpace(args[1]))
	return nil
}

func runFilesRemove(cmd *cobra.Command, args []string) error {
	p, err := loadProjection()
	if err != nil {
		return err
	}
	f, err := findFile(p, args[0])
	if err != nil {
		return err
	}
	if err := p.ApplyDelete(getContext(), f.ID); err != nil {
		return err
	}
	ui.Success(cmd.OutOrStdout(), "deleted %s", f.Name)
	return nil
}

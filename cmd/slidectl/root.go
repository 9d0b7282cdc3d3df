package main

import (
	"context"
	"errors"
	"os"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/client"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/services"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/ui"
	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

type cliConfig struct {
	Server string `env:"SLIDE_SERVER" envDefault:"http://localhost:8080"`
	Code   string `env:"SLIDE_CODE"`
}

var (
	serverURL  string
	inviteCode string

	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "slidectl",
	Short: "Share and present PDF slide decks through invite links",
	Long: ui.StyleTitle.Render("slidectl") + " - invite-scoped slide sharing\n\n" +
		"Anyone holding an invite code can list, upload, rename, delete and\n" +
		"present the PDF decks shared under it.",
	SilenceUsage:      true,
	PersistentPreRunE: initializeClient,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Error(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "slide service URL (env SLIDE_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&inviteCode, "code", "c", "", "invite code (env SLIDE_CODE)")

	rootCmd.AddCommand(inviteCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(viewCmd)
}

// initializeClient fills unset flags from the environment.
func initializeClient(cmd *cobra.Command, _ []string) error {
	cfg, err := env.ParseAs[cliConfig]()
	if err != nil {
		return err
	}
	if serverURL == "" {
		serverURL = cfg.Server
	}
	if inviteCode == "" {
		inviteCode = cfg.Code
	}
	apiClient = client.New(serverURL, nil)
	return nil
}

var errNoCode = errors.New("an invite code is required (--code or SLIDE_CODE)")

func requireCode() error {
	if inviteCode == "" {
		return errNoCode
	}
	if !services.WellFormed(inviteCode) {
		return errors.New("malformed invite code")
	}
	return nil
}

func getContext() context.Context {
	return context.Background()
}

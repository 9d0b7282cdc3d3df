package main

import (
	"fmt"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/ui"
	"github.com/spf13/cobra"
)

var inviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Create or check invite codes",
}

var inviteCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new invite and print its share link",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		invite, err := apiClient.CreateInvite(getContext())
		if err != nil {
			return fmt.Errorf("create invite: %w", err)
		}
		out := cmd.OutOrStdout()
		ui.Success(out, "invite created")
		fmt.Fprintf(out, "%s %s\n", ui.StyleHeader.Render("code:"), invite.Code)
		fmt.Fprintf(out, "%s %s\n", ui.StyleHeader.Render("link:"), invite.URL)
		return nil
	},
}

var inviteCheckCmd = &cobra.Command{
	Use:   "check <code>",
	Short: "Report whether an invite code is valid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		valid, err := apiClient.CheckInvite(getContext(), args[0])
		if err != nil {
			return fmt.Errorf("check invite: %w", err)
		}
		if valid {
			ui.Success(cmd.OutOrStdout(), "%s is valid", args[0])
			return nil
		}
		ui.Warning(cmd.OutOrStdout(), "%s is not a valid invite", args[0])
		return nil
	},
}

func init() {
	inviteCmd.AddCommand(inviteCreateCmd)
	inviteCmd.AddCommand(inviteCheckCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-tracker/internal/db"
	"github.com/jonathan/interview-tracker/internal/observability"
)

var verifyEmail string

var verifyUserCmd = &cobra.Command{
	Use:   "verify-user",
	Short: "Mark an identity's email address as verified",
	Long:  `Verify an account without a verification link, for environments where mail cannot be delivered.`,
	Args:  cobra.NoArgs,
	RunE:  runVerifyUser,
}

func init() {
	verifyUserCmd.Flags().StringVar(&verifyEmail, "email", "", "Email address of the account (required)")
	_ = verifyUserCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(verifyUserCmd)
}

func runVerifyUser(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	user, err := database.MarkEmailVerified(ctx, verifyEmail)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no account with email %q", verifyEmail)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintUser("Email verified", user)
	return nil
}

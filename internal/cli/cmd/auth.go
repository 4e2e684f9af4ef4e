package cmd

import (
	"fmt"

	"github.com/filehost/filehost/internal/cli/output"
	"github.com/spf13/cobra"
)

var flagPassword string

var registerCmd = &cobra.Command{
	Use:   "register <username> <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readSecret(flagPassword, "Password: ")
		if err != nil {
			return err
		}
		msg, err := apiClient.Register(args[0], password, args[1])
		if err != nil {
			return fmt.Errorf("registering: %w", err)
		}
		printMessage(msg)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Check credentials and remember the username",
	Long: `Check a username and password against the server. On success the
username is stored in the CLI config and used by ls, upload, rm and share.

  filehost login alice
  filehost login alice --password pw1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readSecret(flagPassword, "Password: ")
		if err != nil {
			return err
		}
		msg, err := apiClient.Login(args[0], password)
		if err != nil {
			return fmt.Errorf("logging in: %w", err)
		}

		if err := cfg.Login(args[0]); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		printMessage(msg)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored username",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Logout(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored username and server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		if flagJSON {
			output.JSON(cfg)
			return nil
		}
		fmt.Printf("%s @ %s\n", cfg.Username, cfg.ServerURL)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <email>",
	Short: "Request a password reset link by email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := apiClient.RequestPasswordReset(args[0])
		if err != nil {
			return fmt.Errorf("requesting reset: %w", err)
		}
		printMessage(msg)
		return nil
	},
}

var changePasswordCmd = &cobra.Command{
	Use:   "change-password <token>",
	Short: "Set a new password using a reset token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readSecret(flagPassword, "New password: ")
		if err != nil {
			return err
		}
		resp, err := apiClient.ChangePassword(args[0], password)
		if err != nil {
			return fmt.Errorf("changing password: %w", err)
		}
		if flagJSON {
			output.JSON(resp)
			return nil
		}
		fmt.Printf("Password changed for %s\n", resp.Username)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd, changePasswordCmd} {
		c.Flags().StringVarP(&flagPassword, "password", "p", "", "Password (prompted when omitted)")
	}
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, resetCmd, changePasswordCmd)
}

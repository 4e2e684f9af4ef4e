package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/filehost/filehost/internal/cli/api"
	"github.com/filehost/filehost/internal/cli/config"
	"github.com/filehost/filehost/internal/cli/output"
	"github.com/spf13/cobra"
)

var (
	flagJSON      bool
	flagServerURL string

	cfg       *config.Config
	apiClient *api.Client
)

var rootCmd = &cobra.Command{
	Use:   "filehost",
	Short: "filehost CLI, manage your files from the terminal",
	Long: `filehost lets you register, upload, share and download files on a
filehost server without leaving the terminal.

Get started:
  filehost register alice alice@example.com
  filehost login alice
  filehost upload report.pdf
  filehost ls`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagServerURL != "" {
			cfg.ServerURL = flagServerURL
		}
		apiClient = api.NewClient(cfg.ServerURL)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "Override server URL (default: from config or "+config.DefaultURL+")")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func requireLogin() error {
	if cfg == nil || !cfg.LoggedIn() {
		return fmt.Errorf("not logged in, run \"filehost login <username>\" first")
	}
	return nil
}

// readSecret returns value, or prompts for it on stdin when empty.
func readSecret(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSuffix(strings.ToLower(prompt), ": "), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printMessage(message string) {
	if flagJSON {
		output.JSON(api.MessageResponse{Message: message})
		return
	}
	fmt.Println(message)
}

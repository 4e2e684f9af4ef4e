package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/filehost/filehost/internal/cli/output"
	"github.com/spf13/cobra"
)

var (
	flagName   string
	flagForce  bool
	flagOutput string
	flagShared bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <path>...",
	Short: "Upload one or more files",
	Long: `Upload local files for the logged-in user.

  filehost upload report.pdf
  filehost upload report.pdf --name q3-report.pdf
  filehost upload a.txt b.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		if flagName != "" && len(args) > 1 {
			return fmt.Errorf("--name only applies to a single file")
		}

		var failed int
		for _, path := range args {
			if _, err := apiClient.UploadFile(cfg.Username, path, flagName); err != nil {
				fmt.Fprintf(os.Stderr, "  Failed: %s: %v\n", filepath.Base(path), err)
				failed++
				continue
			}
			fmt.Printf("Uploaded %s\n", filepath.Base(path))
		}
		if failed > 0 {
			return fmt.Errorf("%d file(s) failed to upload", failed)
		}
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List your files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		files, err := apiClient.ListFiles(cfg.Username)
		if err != nil {
			return fmt.Errorf("listing files: %w", err)
		}
		if flagJSON {
			output.JSON(files)
			return nil
		}
		output.FileTable(os.Stdout, files)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <stored-name>",
	Short: "Delete a file",
	Long: `Delete one of your files by its stored name (see "filehost ls").

  filehost rm report-1700000000000.pdf
  filehost rm report-1700000000000.pdf --force    Skip confirmation`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		if !flagForce {
			fmt.Printf("Delete %q? This cannot be undone. [y/N] ", args[0])
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			answer = strings.TrimSpace(strings.ToLower(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		msg, err := apiClient.DeleteFile(cfg.Username, args[0])
		if err != nil {
			return fmt.Errorf("deleting: %w", err)
		}
		printMessage(msg)
		return nil
	},
}

func setShared(filename string, shared bool) error {
	if err := requireLogin(); err != nil {
		return err
	}
	msg, err := apiClient.SetShared(cfg.Username, filename, shared)
	if err != nil {
		return fmt.Errorf("updating sharing: %w", err)
	}
	if flagJSON {
		printMessage(msg)
		return nil
	}
	if shared {
		fmt.Printf("Shared: %s\n", output.ShareURL(cfg.ServerURL, filename))
	} else {
		fmt.Printf("No longer shared: %s\n", filename)
	}
	return nil
}

var shareCmd = &cobra.Command{
	Use:   "share <stored-name>",
	Short: "Make a file downloadable by anyone with the link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setShared(args[0], true)
	},
}

var unshareCmd = &cobra.Command{
	Use:   "unshare <stored-name>",
	Short: "Stop sharing a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setShared(args[0], false)
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <stored-name> [local-dir]",
	Short: "Download a file",
	Long: `Download a file by its stored name.

  filehost download report-1700000000000.pdf
  filehost download report-1700000000000.pdf ./out
  filehost download report-1700000000000.pdf --shared     Only if shared`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		destDir := "."
		if len(args) > 1 {
			destDir = args[1]
		}
		dest := filepath.Join(destDir, filepath.Base(name))
		if flagOutput != "" {
			dest = flagOutput
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}

		var err error
		if flagShared {
			err = apiClient.DownloadShared(name, dest)
		} else {
			err = apiClient.Download(name, dest)
		}
		if err != nil {
			_ = os.Remove(dest)
			return fmt.Errorf("downloading: %w", err)
		}

		fmt.Printf("Downloaded %s -> %s\n", name, dest)
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&flagName, "name", "", "Display name (default: local file name)")
	rmCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Skip confirmation prompt")
	downloadCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path (overrides default naming)")
	downloadCmd.Flags().BoolVar(&flagShared, "shared", false, "Use the shared-link endpoint")
	rootCmd.AddCommand(uploadCmd, lsCmd, rmCmd, shareCmd, unshareCmd, downloadCmd)
}

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtiagent/rtichat/internal/config"
	"github.com/rtiagent/rtichat/internal/logger"
	"github.com/rtiagent/rtichat/internal/store"
)

var skipConfirm bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all stored chat sessions and log files",
	Long: `Clears the local session list and removes log files.

Conversations stay on the backend; only this client's record of them is removed.
It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	return cleanData(settings, os.Stdin, cmd.OutOrStdout(), skipConfirm)
}

// cleanData clears the store and logs under settings. input and out are
// injected for testing.
func cleanData(settings *config.Settings, input io.Reader, out io.Writer, yes bool) error {
	st := store.New(settings.SessionsPath())
	sessionCount := len(st.ListSessions())

	if sessionCount == 0 && !hasLogs(settings.LogDir()) {
		fmt.Fprintln(out, "Nothing to clean.")
		return nil
	}

	fmt.Fprintln(out, "This will clean:")
	if sessionCount > 0 {
		fmt.Fprintf(out, "  - %d session(s) in %s\n", sessionCount, st.Path())
	}
	fmt.Fprintf(out, "  - All log files in %s\n", settings.LogDir())

	if !yes && !confirm(input, out, "Continue?") {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	cleared := st.Clear()

	logsCleared, err := logger.ClearLogs(settings.LogDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cleaned:")
	if cleared > 0 {
		fmt.Fprintf(out, "  - %d session(s) cleared\n", cleared)
	}
	if logsCleared > 0 {
		fmt.Fprintf(out, "  - %d log file(s) removed\n", logsCleared)
	}
	return nil
}

func hasLogs(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".log") {
			return true
		}
	}
	return false
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

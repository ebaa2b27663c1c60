package cmd

import (
	"fmt"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rtiagent/rtichat/internal/app"
	"github.com/rtiagent/rtichat/internal/backend"
	"github.com/rtiagent/rtichat/internal/config"
	"github.com/rtiagent/rtichat/internal/logger"
	"github.com/rtiagent/rtichat/internal/store"
)

var (
	quietMode             bool
	version, commit, date string

	// v holds defaults, environment and flag bindings shared by every command.
	v = config.NewViper()
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(ver, c, d string) {
	version, commit, date = ver, c, d
}

var rootCmd = &cobra.Command{
	Use:   "rtichat",
	Short: "Terminal chat client for the RTI Agent",
	Long: `rtichat is a terminal client for the RTI Agent backend. It keeps a list of
chat sessions, sends your questions about the Right to Information Act, and
lets you download or copy the RTI application drafts the agent prepares.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("backend-url", config.DefaultBackendURL, "Base URL of the RTI Agent backend")
	flags.Duration("timeout", config.DefaultRequestTimeout, "Timeout for a single backend request")
	flags.String("data-dir", "", "Directory for sessions, settings and logs (default ~/.rtichat)")
	flags.String("download-dir", "", "Default directory offered when downloading a draft")
	flags.Bool("debug", false, "Enable debug logging")
	flags.BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.Flags().String("theme", config.DefaultTheme, "Color theme")
	rootCmd.Flags().Bool("notifications", false, "Desktop notification when a reply arrives while the terminal is unfocused")

	bindFlag(flags, config.KeyBackendURL, "backend-url")
	bindFlag(flags, config.KeyRequestTimeout, "timeout")
	bindFlag(flags, config.KeyDataDir, "data-dir")
	bindFlag(flags, config.KeyDownloadDir, "download-dir")
	bindFlag(flags, config.KeyDebug, "debug")
	bindFlag(rootCmd.Flags(), config.KeyTheme, "theme")
	bindFlag(rootCmd.Flags(), config.KeyNotifications, "notifications")
}

// bindFlag lets a flag override the viper key only when it is set.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("rtichat %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("rtichat %s\n", version)
}

// loadSettings resolves settings through v and points logging at the data
// directory.
func loadSettings(vp *viper.Viper) (*config.Settings, error) {
	settings, err := config.Load(vp)
	if err != nil {
		return nil, err
	}
	applyLogLevel(settings.Debug, quietMode)
	if err := logger.Init(filepath.Join(settings.LogDir(), logger.LogFileName)); err != nil {
		return nil, err
	}
	return settings, nil
}

func applyLogLevel(debug, quiet bool) {
	switch {
	case quiet:
		logger.SetDebug(false)
	case debug:
		logger.SetDebug(true)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(v)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	defer logger.Close()

	logger.WithComponent("cmd").Info("starting",
		"version", version,
		"backend", settings.BackendURL,
		"dataDir", settings.DataDir,
	)

	st := store.New(settings.SessionsPath())
	client := backend.New(settings.BackendURL, backend.WithTimeout(settings.RequestTimeout))

	m := app.New(settings, st, client, app.WithVersion(version))
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

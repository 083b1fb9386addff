package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/folio/internal/config"
	"github.com/pders01/folio/internal/debuglog"
	"github.com/pders01/folio/internal/storage"
	"github.com/pders01/folio/internal/tui"
	"github.com/pders01/folio/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	dbPath     string
	configPath string
	quiet      bool
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:           "folio",
	Short:         "Terminal book explorer",
	Long:          "folio browses a public book catalog, filters by genre and title, and keeps a local wishlist.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("folio %s\n", Version)
		fmt.Println("Terminal book explorer")
		fmt.Println("github.com/pders01/folio")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration to ~/.config/folio/config.toml",
	Run: func(cmd *cobra.Command, args []string) {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "folio", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "Path to database file (overrides config)")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip startup banner")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Write debug logs (overrides log.level)")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if debug {
		level = debuglog.LevelDebug
	}
	if err := debuglog.Setup(level, cfg.Log.File); err != nil {
		return err
	}
	defer debuglog.Close()

	tui.ApplyTheme(cfg.UI.Colors)
	if !quiet {
		tui.ShowBanner(Version)
	}

	dbFile, err := validation.NewPathHandler().File(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("invalid database path: %w", err)
	}

	store, err := storage.NewStore(dbFile, cfg.Database.Timeout)
	if err != nil {
		return err
	}
	defer store.Close()

	app, err := tui.NewApp(store, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	debuglog.Infof("starting folio %s", Version)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

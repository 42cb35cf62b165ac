// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"fjacquet/statement-csv/internal/config"
	"fjacquet/statement-csv/internal/container"
	"fjacquet/statement-csv/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	Enrich bool
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-csv",
		Short: "Normalize and categorize ZKB and Revolut bank statements.",
		Long: `statement-csv turns ZKB and Revolut CSV exports into one canonical CSV layout
and assigns every transaction a spending category.

Categories come from the learned merchant map, then ordered keyword rules, then an
optional external lookup. Keyword and lookup results are remembered in the merchant
map so the next run resolves them directly.`,
		SilenceUsage:      true,
		PersistentPreRunE: initContainer,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeContainer()
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	// ConfigFile is an explicit configuration file path
	ConfigFile string

	// LogLevel overrides log.level when set
	LogLevel string

	appContainer *container.Container
	initOnce     sync.Once
)

// Init initializes the root command flags. Later calls do nothing.
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory")
		Cmd.PersistentFlags().BoolVar(&SharedFlags.Enrich, "enrich", false, "Use the external lookup for descriptions no rule matches")
		Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "config file (default: $HOME/.statement-csv/config.yaml)")
		Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	})
}

func initContainer(cmd *cobra.Command, _ []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfigFile(ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if LogLevel != "" {
		cfg.Log.Level = LogLevel
	}

	logger := config.ConfigureLoggingFromConfig(cfg, cmd.ErrOrStderr())
	logging.SetLogger(logger)

	c, err := container.NewContainer(cfg,
		container.WithLogger(logger),
		container.WithEnrichment(SharedFlags.Enrich))
	if err != nil {
		return err
	}
	SetContainer(c)
	return nil
}

func closeContainer() error {
	if appContainer == nil {
		return nil
	}
	err := appContainer.Close()
	appContainer = nil
	return err
}

// GetContainer returns the container built for the running command.
func GetContainer() *container.Container {
	return appContainer
}

// SetContainer replaces the container; tests use it to inject their own.
func SetContainer(c *container.Container) {
	appContainer = c
}

// GetLogger returns the container's logger, or the package default before
// the container exists.
func GetLogger() logging.Logger {
	if appContainer != nil {
		return appContainer.GetLogger()
	}
	return logging.GetLogger()
}

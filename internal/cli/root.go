package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/julienstroheker/linegate/internal/config"
	"github.com/julienstroheker/linegate/internal/logging"
)

var (
	cfg         *config.Config
	logger      *logging.Logger
	verboseFlag bool
	jsonFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "linegate",
	Short: "Line-oriented output relay with pattern hooks",
	Long:  `linegate - relay a command's output with decoration and react to patterns in it`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		cfg = config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}

		// Determine log level
		level := logging.ParseLevel(cfg.LogLevel)
		if verboseFlag {
			level = logging.DebugLevel
		}

		// Determine format
		format := logging.ParseFormat(cfg.LogFormat)
		if jsonFlag {
			format = logging.FormatJSON
		}

		// Initialize logger
		logger = logging.NewWithFormat(level, format)
		logger.Debug("Logger initialized",
			logging.String("level", level.String()),
			logging.String("format", format.String()),
		)
		return nil
	},
}

func init() {
	// Disable default completion and help commands
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Add persistent flags
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose logging (debug level)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output logs in JSON format")
}

// Execute runs the root command. When the supervised command exits non-zero,
// the same exit code is propagated.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetLogger returns the global logger instance
func GetLogger() *logging.Logger {
	return logger
}

// GetConfig returns the global config instance
func GetConfig() *config.Config {
	return cfg
}

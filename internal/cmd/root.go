package cmd

import (
	"strings"

	"github.com/Iron-Ham/ringtail/internal/config"
	"github.com/Iron-Ham/ringtail/internal/errors"
	"github.com/Iron-Ham/ringtail/internal/logging"
	"github.com/Iron-Ham/ringtail/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "ringtail",
	Short: "Keep the last N lines of a stream in a fixed-size ring",
	Long: `Ringtail retains the most recent lines of a file or stream in a
fixed-capacity ring buffer, evicting the oldest line once the ring is full,
and drains what it kept when input ends.

It can also replay scripted push, pop, and drain operations to show exactly
how the ring evicts and wraps around.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupCommand,
}

var (
	// cfg and logger are populated by setupCommand before any RunE runs.
	cfg    *config.Config
	logger = logging.NopLogger()

	// configReadErr holds a failure to read an explicitly requested config file.
	configReadErr error
)

// Execute runs the root command
func Execute() error {
	defer func() { _ = logger.Close() }()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/ringtail/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().String("color", "", "colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: text, json, yaml")
}

func initConfig() {
	bindFlags()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	configReadErr = nil
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/ringtail")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("RINGTAIL")
	// Replace dots with underscores for nested keys in env vars
	// e.g., RINGTAIL_TAIL_LINES for tail.lines
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine unless one was named explicitly
	if err := viper.ReadInConfig(); err != nil && viper.GetString("config") != "" {
		configReadErr = errors.Wrapf(err, "failed to read config file %s", viper.GetString("config"))
	}
}

// bindFlags connects command-line flags to their config keys. Flags only
// override the config when they are set explicitly.
func bindFlags() {
	persistent := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("config", persistent.Lookup("config"))
	_ = viper.BindPFlag("output.color", persistent.Lookup("color"))
	_ = viper.BindPFlag("output.format", persistent.Lookup("output"))

	_ = viper.BindPFlag("tail.lines", tailCmd.Flags().Lookup("lines"))
	_ = viper.BindPFlag("tail.match", tailCmd.Flags().Lookup("match"))
	_ = viper.BindPFlag("tail.level", tailCmd.Flags().Lookup("level"))

	_ = viper.BindPFlag("buffer.capacity", replayCmd.Flags().Lookup("capacity"))
}

// setupCommand loads the effective configuration and opens the logger for
// the command about to run.
func setupCommand(cmd *cobra.Command, args []string) error {
	if configReadErr != nil {
		return configReadErr
	}

	loaded, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	cfg = loaded

	level := cfg.Logging.Level
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = logging.LevelDebug
	}

	var l *logging.Logger
	if cfg.Logging.File == "" {
		l = logging.NewWriterLogger(cmd.ErrOrStderr(), level)
	} else {
		l, err = logging.NewLogger(cfg.Logging.File, level)
		if err != nil {
			return err
		}
	}
	logger = l.WithCommand(cmd.Name())
	logger.Debug("configuration loaded", "config_file", viper.ConfigFileUsed())
	return nil
}

// newPrinter returns a Printer for the command's standard output that
// honors the configured color mode and output format.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), cfg.Output.Color, output.Format(cfg.Output.Format))
}

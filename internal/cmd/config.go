package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/ringtail/internal/config"
	"github.com/Iron-Ham/ringtail/internal/errors"
	"github.com/Iron-Ham/ringtail/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or check ringtail configuration",
	Long: `View or check ringtail configuration.

Without arguments, displays the effective configuration: defaults, then the
config file, then RINGTAIL_* environment variables, then flags.`,
	// Config subcommands must run even when the configuration is invalid.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configReadErr
	},
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for invalid values",
	RunE:  runConfigValidate,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/ringtail/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	format := output.Format(loaded.Output.Format)
	if format == output.FormatText {
		format = output.FormatYAML
	}
	printer := output.NewPrinter(cmd.OutOrStdout(), loaded.Output.Color, format)

	if format == output.FormatYAML {
		source := "(none - using defaults)"
		if used := viper.ConfigFileUsed(); used != "" {
			source = used
		}
		if err := printer.Println(printer.Render(output.Muted, "# config file: "+source)); err != nil {
			return err
		}
	}
	return printer.Encode(loaded)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), viper.GetString("output.color"), output.FormatText)

	_, err := config.Load()
	if err == nil {
		return printer.Println(printer.Render(output.Success, "configuration is valid"))
	}

	var problems config.ValidationErrors
	if !errors.As(err, &problems) {
		return errors.Wrap(err, "failed to decode configuration")
	}
	for _, p := range problems {
		if err := printer.Println(printer.Render(output.Error, "✗ ") + p.Error()); err != nil {
			return err
		}
	}
	return errors.NewValidationError(fmt.Sprintf("configuration has %d invalid value(s)", len(problems)))
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configContent := `# Ringtail Configuration

# Default capacity for replay scripts that don't set one
buffer:
  capacity: 16

# tail command defaults
tail:
  # Number of trailing lines to keep (0 keeps nothing)
  lines: 10
  # Glob pattern lines must match, e.g. "*ERROR*" (empty matches everything)
  match: ""
  # Minimum level for JSON log lines: debug, info, warn, error (empty disables)
  level: ""

output:
  # Colorize text output: auto, always, never
  color: auto
  # Output format: text, json, yaml
  format: text

# Diagnostic logging
logging:
  # Options: debug, info, warn, error
  level: warn
  # Log file path (empty logs to stderr)
  file: ""
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize ringtail's defaults.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. $HOME/.config/ringtail/config.yaml\n")
	fmt.Fprintf(out, "  3. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: RINGTAIL_* (e.g., RINGTAIL_TAIL_LINES)")

	return nil
}

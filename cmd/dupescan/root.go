package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "dupescan <root> [root...]",
		Short: "Find duplicate files by content",
		Long: `Dupescan walks one or more directory trees, fingerprints every file by
its SHA-256 content hash, and reports groups of files with identical
content. Two files are duplicates when their full byte content matches,
regardless of name, location, or timestamps.

Examples:
  dupescan ~/Photos                       # Scan one tree
  dupescan ~/Photos ~/Backup              # Scan two trees together
  dupescan -e Cache -e .git ~/Projects    # Prune matching directories
  dupescan -s 1M -o yaml -r dupes.yaml .  # Large files only, YAML report
  dupescan -w 4 /mnt/slow-disk            # Limit hashing concurrency`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          runScan,
		SilenceUsage:  false,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/dupescan/config.yaml)")
	rootCmd.PersistentFlags().StringP("min-size", "s", "", "minimum file size (e.g., 100K, 1M)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "override hashing worker count (0=auto)")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "exclude markers or glob patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "report format: json, yaml, plain")
	rootCmd.PersistentFlags().StringP("report", "r", "", "report file path")
	rootCmd.PersistentFlags().Int("file-timeout", 0, "per-file hashing deadline in seconds (0=none)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Bind flags to viper
	_ = viper.BindPFlag("min_size", rootCmd.PersistentFlags().Lookup("min-size"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("report", rootCmd.PersistentFlags().Lookup("report"))
	_ = viper.BindPFlag("file_timeout", rootCmd.PersistentFlags().Lookup("file-timeout"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Set config name and type
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "dupescan"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "dupescan"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("DUPESCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package
	viper.SetDefault("min_size", config.DefaultMinSize)
	viper.SetDefault("exclude", config.DefaultExclusions)
	viper.SetDefault("report", config.DefaultReportPath)
	viper.SetDefault("output", config.DefaultOutputFormat)
	viper.SetDefault("workers", config.DefaultWorkers)
	viper.SetDefault("file_timeout", config.DefaultFileTimeout)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.path", "")

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError("%v", err)
	}
	return err
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

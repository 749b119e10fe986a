// Deskpilot is a voice-first desktop command daemon. It turns free-form
// spoken commands into file, folder, volume and brightness actions on the
// machine it runs on.
//
// Usage:
//
//	deskpilot serve [--config deskpilot.yaml]
//	deskpilot run "make a folder called Projects"
//	deskpilot exec "VOLUME SET 50"
//	deskpilot version
//
//	@title			deskpilot API
//	@version		1.0
//	@description	Voice-driven desktop commands: files, folders, volume and brightness.
//	@BasePath		/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nadzzz/deskpilot/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configFile string
	verbose    bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "deskpilot",
	Short: "Voice-driven desktop commands",
	Long: `deskpilot classifies spoken commands with an LLM and executes them on this
machine: creating, deleting, renaming and moving files and folders, changing
the working directory, and controlling volume and display brightness.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "deskpilot %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (e.g. configs/deskpilot.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

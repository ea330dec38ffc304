package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scanedit/internal/config"
	"github.com/jackzampolin/scanedit/internal/home"
	"github.com/jackzampolin/scanedit/internal/output"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Long: `Write the default configuration to path, or to config.yaml in the
scanedit home directory when no path is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		path := h.ConfigPath()
		if len(args) == 1 {
			path = args[0]
		} else if h.ConfigExists() && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every configuration key with its default",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Output(config.DefaultEntries())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the effective value of a configuration key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, mgr, _, err := loadEnvironment()
		if err != nil {
			return err
		}
		v, err := mgr.Lookup(args[0])
		if err != nil {
			return err
		}
		return output.Output(map[string]any{args[0]: v})
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config in the home directory")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"policyscope/internal/config"
)

var flagInitForce bool

var initConfigCmd = &cobra.Command{
	Use:   "init-config <path>",
	Short: "Write the default configuration to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if _, err := os.Stat(path); err == nil && !flagInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if err := config.DefaultConfig().SaveConfig(path); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initConfigCmd)

	initConfigCmd.Flags().BoolVar(&flagInitForce, "force", false, "Overwrite an existing file")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the policy cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show whether a cached policy set exists and how old it is",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		info, err := a.cache.Info(cmd.Context())
		if err != nil {
			return err
		}

		return writeJSONOutput("-", info)
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cached policy set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.cache.Clear(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd, cacheClearCmd)
}

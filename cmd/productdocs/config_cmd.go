package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mjmlights57/product-docs-manager/internal/config"
)

func newConfigCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get or set configuration",
	}

	cmd.AddCommand(newConfigGetCmd(cfg))
	cmd.AddCommand(newConfigSetCmd())
	return cmd
}

func newConfigGetCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !config.IsAllowedKey(key) {
				return fmt.Errorf("unknown key %q (valid keys: %s)", key, strings.Join(config.AllowedKeys(), ", "))
			}
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !config.IsAllowedKey(key) {
				return fmt.Errorf("unknown key %q (valid keys: %s)", key, strings.Join(config.AllowedKeys(), ", "))
			}
			path, err := config.Path()
			if err != nil {
				return err
			}
			if err := config.SetKey(path, key, value); err != nil {
				return err
			}
			fmt.Printf("Set %s in %s\n", key, path)
			return nil
		},
	}
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/pixwand/internal/config"
	"github.com/example/pixwand/internal/theme"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and write the configuration",
	}

	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), a.cfg.String())
			return nil
		},
	}

	var force bool
	writeCmd := &cobra.Command{
		Use:   "write [path]",
		Short: "Write the effective configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if a.configPath != "" {
				path = a.configPath
			}
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("config write: no home directory, pass a path")
			}
			return a.writeConfig(path, force, cmd)
		},
	}
	writeCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "List the built-in themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range theme.Embedded() {
				marker := " "
				if strings.EqualFold(name, a.theme.Name) {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}

	cmd.AddCommand(printCmd, writeCmd, themesCmd)
	return cmd
}

func (a *app) writeConfig(path string, force bool, cmd *cobra.Command) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config write: %s exists, use --force to overwrite", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config write: %w", err)
	}
	if err := os.WriteFile(path, []byte(a.cfg.String()), 0o644); err != nil {
		return fmt.Errorf("config write: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

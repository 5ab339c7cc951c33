package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studiowebux/adminctl/internal/config"
	"github.com/studiowebux/adminctl/internal/keybinds"
	"github.com/studiowebux/adminctl/internal/mock"
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve a fake admin API for local development",
	Long: `Serve a fake admin API backed by in-memory seed data. Without --seed a
built-in data set is used; its admin key is printed on start.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := mock.DefaultSeed()
		if cfg.Mock.Seed != "" {
			s, err := mock.LoadSeed(cfg.Mock.Seed)
			if err != nil {
				return err
			}
			seed = s
		}

		srv := mock.NewServer(seed, logger)
		if err := srv.Start(cfg.Mock.Addr); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Mock admin API on http://%s (admin key: %s)\n", cfg.Mock.Addr, seed.AdminKey)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return srv.Stop()
	},
}

var mockSeedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Write the built-in seed data to a .yaml or .json file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mock.SaveSeed(mock.DefaultSeed(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Seed written to %s\n", args[0])
		return nil
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Inspect console keybindings",
}

var keybindsValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a keybinds.json file (default ~/.adminctl/keybinds.json)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.KeybindsFile
		if len(args) > 0 {
			path = args[0]
		}
		kc, err := keybinds.LoadConfig(path)
		if err != nil {
			return err
		}

		result := keybinds.NewValidator().ValidateConfig(kc)
		fmt.Fprintln(os.Stdout, result.String())
		if result.HasErrors() {
			return errors.New("keybindings are invalid")
		}
		return nil
	},
}

var keybindsExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the effective keybindings to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
		if err != nil {
			return err
		}
		return keybinds.SaveConfig(keybinds.ExportConfig(registry), args[0])
	},
}

func init() {
	mockCmd.Flags().String("addr", "", "Listen address (default 127.0.0.1:5000)")
	mockCmd.Flags().String("seed", "", "Seed data file (.yaml or .json)")
	mockCmd.AddCommand(mockSeedCmd)

	keybindsCmd.AddCommand(keybindsValidateCmd, keybindsExportCmd)
}

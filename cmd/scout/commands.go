package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talentscout/scout/internal/config"
	"github.com/talentscout/scout/internal/storage"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List stored candidate records",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return runCandidates(limit)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all candidate records as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		return runExport(output)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and modify scout configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSet(args[0], args[1])
	},
}

func init() {
	candidatesCmd.Flags().Int("limit", 20, "maximum number of records to show (0 for all)")
	exportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func openStore() (storage.CandidateStore, error) {
	cfg, err := config.LoadLocal()
	if err != nil {
		return nil, err
	}
	store, err := storage.OpenDriver(cfg.Storage.Driver, cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return store, nil
}

func runCandidates(limit int) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	total, err := store.CountCandidates()
	if err != nil {
		return fmt.Errorf("counting candidates: %w", err)
	}

	candidates, err := store.ListCandidates(limit)
	if err != nil {
		return fmt.Errorf("listing candidates: %w", err)
	}

	if total == 0 {
		fmt.Println("No candidate records stored.")
		return nil
	}

	fmt.Printf("%d candidate record(s), showing %d:\n\n", total, len(candidates))
	for _, c := range candidates {
		fmt.Printf("%s  %s\n", colorize(colorBold, c.ID), c.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("  position:   %s\n", c.Record["desired_position"])
		fmt.Printf("  experience: %s years\n", c.Record["experience_years"])
		fmt.Printf("  tech stack: %s\n", c.Record["tech_stack"])
		fmt.Println()
	}
	return nil
}

func runExport(output string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	candidates, err := store.ListCandidates(0)
	if err != nil {
		return fmt.Errorf("listing candidates: %w", err)
	}

	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding candidates: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(output, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	printSuccess("exported %d record(s) to %s", len(candidates), output)
	return nil
}

func runConfigShow() error {
	cfg, err := config.LoadLocal()
	if err != nil {
		return err
	}
	for _, info := range config.ShowAll(cfg) {
		fmt.Printf("%-20s %-24s %s\n", info.Key, colorize(colorCyan, info.EnvVar), info.Value)
	}
	return nil
}

func runConfigSet(key, value string) error {
	if err := config.SetKey(key, value); err != nil {
		return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))
	}
	printSuccess("set %s = %s", key, value)
	return nil
}

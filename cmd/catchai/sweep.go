package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CrisMolina12/CatchaiIA/internal/partition"
)

var sweepAll bool

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove index partitions left by other API keys",
	Long: `Remove index partitions built under a different API key. With --all,
partitions of the current key are removed as well.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepAll, "all", false, "Remove every partition")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	keep := ""
	if !sweepAll {
		credential, err := cfg.APIKey()
		if err != nil {
			return err
		}
		keep = partition.Hash(credential)
	}
	newEmbedder, err := embedderFactory(cfg)
	if err != nil {
		return err
	}
	_, backend, err := storage(cfg, newEmbedder, nil)
	if err != nil {
		return err
	}
	if backend == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "The memory vector store keeps no partitions.")
		return nil
	}
	removed, err := partition.NewManager(backend, nil).Sweep(cmd.Context(), keep)
	for _, name := range removed {
		fmt.Fprintln(cmd.OutOrStdout(), "removed", name)
	}
	if err == nil && len(removed) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to remove.")
	}
	return err
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <name>...",
	Short: "Delete stored lexicons",
	Long:  "Deletes lexicons and their usage counters. Lexicon files on disk are left alone.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	for _, name := range args {
		if err := b.Remove(name); err != nil {
			return err
		}
		fmt.Printf("⚡ removed %s\n", name)
	}
	return nil
}

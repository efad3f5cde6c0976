package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corey/radiko/internal/adapters/socket"
)

var importName string

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Store lexicon files",
	Long:  "Loads .yaml, .yml, .json or .tsv lexicon files and stores them. Reimporting replaces the morphemes and keeps usage counters.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importName, "name", "n", "", "Lexicon name (default: file name without extension)")
}

func runImport(cmd *cobra.Command, args []string) error {
	if importName != "" && len(args) > 1 {
		return fmt.Errorf("--name needs exactly one file")
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	for _, path := range args {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		result, err := b.Import(socket.ImportParams{Path: abs, Name: importName})
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		fmt.Print(formatImport(result))
	}
	return nil
}

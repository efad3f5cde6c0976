package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var lexiconsJSON bool

var lexiconsCmd = &cobra.Command{
	Use:   "lexicons",
	Short: "List stored lexicons",
	Args:  cobra.NoArgs,
	RunE:  runLexicons,
}

func init() {
	lexiconsCmd.Flags().BoolVar(&lexiconsJSON, "json", false, "Print the result as JSON")
}

func runLexicons(cmd *cobra.Command, args []string) error {
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	result, err := b.Lexicons()
	if err != nil {
		return err
	}
	if lexiconsJSON {
		return json.NewEncoder(os.Stdout).Encode(result)
	}
	fmt.Print(formatLexicons(result))
	return nil
}

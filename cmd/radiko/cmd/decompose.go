package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/radiko/internal/adapters/lexicon"
	"github.com/corey/radiko/internal/adapters/socket"
	"github.com/corey/radiko/internal/app"
)

var (
	decomposeLexicon string
	decomposeFile    string
	decomposeJSON    bool
	decomposeGloss   bool
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose [word...]",
	Short: "Split words into morphemes",
	Long: "Decomposes each word against a stored lexicon (--lexicon, or the default) or a lexicon file (--file).\n" +
		"Uses the daemon when it is running. With no words, reads one word per line from stdin.",
	RunE: runDecompose,
}

func init() {
	f := decomposeCmd.Flags()
	f.StringVarP(&decomposeLexicon, "lexicon", "l", "", "Stored lexicon name")
	f.StringVarP(&decomposeFile, "file", "f", "", "Lexicon file to use instead of a stored lexicon")
	f.BoolVar(&decomposeJSON, "json", false, "Print the result as JSON")
	f.BoolVarP(&decomposeGloss, "gloss", "g", false, "List each piece with its gloss")
	decomposeCmd.MarkFlagsMutuallyExclusive("lexicon", "file")
}

func runDecompose(cmd *cobra.Command, args []string) error {
	words := args
	if len(words) == 0 {
		var err error
		if words, err = readWords(os.Stdin); err != nil {
			return err
		}
	}
	if len(words) == 0 {
		return fmt.Errorf("no words given")
	}

	var (
		result *socket.DecomposeResult
		err    error
	)
	if decomposeFile != "" {
		result, err = decomposeWithFile(words, decomposeFile)
	} else {
		result, err = decomposeStored(words, decomposeLexicon)
	}
	if err != nil {
		return err
	}

	switch {
	case decomposeJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case decomposeGloss:
		fmt.Print(formatGlosses(result))
	default:
		fmt.Print(formatDecompose(result))
	}
	return nil
}

func decomposeStored(words []string, name string) (*socket.DecomposeResult, error) {
	b, err := openBackend()
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return b.Decompose(socket.DecomposeParams{Words: words, Lexicon: name})
}

// decomposeWithFile never opens the store, so it works while another
// process holds the database.
func decomposeWithFile(words []string, path string) (*socket.DecomposeResult, error) {
	lex, err := lexicon.NewLoader().Load(path)
	if err != nil {
		return nil, err
	}

	client := socket.NewClient(socket.SocketPath(workspaceRoot()))
	if client.Ping() {
		res, err := client.DecomposeWith(words, lex.Morphemes)
		if err != nil {
			return nil, err
		}
		res.Lexicon = lex.Meta.Name
		return res, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	results, _, err := app.DecomposeWords(context.Background(), words, app.ToMorphemes(lex.Morphemes), cfg.StateLimit, cliLogger())
	if err != nil {
		return nil, err
	}
	return &socket.DecomposeResult{
		Lexicon: lex.Meta.Name,
		Results: results,
		Elapsed: time.Since(start).String(),
	}, nil
}

// readWords reads whitespace-separated words, skipping blank lines and
// lines starting with #.
func readWords(f *os.File) ([]string, error) {
	if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		return nil, nil
	}
	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return words, nil
}

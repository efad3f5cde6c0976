package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	fsw "github.com/corey/radiko/internal/adapters/fsnotify"
	"github.com/corey/radiko/internal/adapters/lexicon"
	"github.com/corey/radiko/internal/adapters/socket"
	"github.com/corey/radiko/internal/app"
	"github.com/corey/radiko/internal/domain/morph"
)

var lintCmd = &cobra.Command{
	Use:   "lint [file|name]",
	Short: "Report lexicon problems",
	Long: "Checks a lexicon file, or a stored lexicon by name (default lexicon when omitted), for entries\n" +
		"that cannot work as intended: duplicate ids, unknown kinds, dangling adjacency names, unusable suffixes.\n" +
		"Exits 1 when issues are found.",
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	var (
		result *socket.LintResult
		source string
		err    error
	)
	if len(args) == 1 && isFile(args[0]) {
		source = args[0]
		result, err = lintFile(args[0])
	} else {
		if len(args) == 1 {
			source = args[0]
		}
		result, err = lintStored(source)
		if result != nil && result.Lexicon != "" {
			source = result.Lexicon
		}
	}
	if err != nil {
		return err
	}

	fmt.Print(formatLint(result, source))
	if result.Count > 0 {
		return fmt.Errorf("%d lint issues", result.Count)
	}
	return nil
}

func isFile(arg string) bool {
	fi, err := os.Stat(arg)
	return err == nil && !fi.IsDir() && fsw.IsLexiconFile(arg)
}

func lintFile(path string) (*socket.LintResult, error) {
	lex, err := lexicon.NewLoader().Load(path)
	if err != nil {
		return nil, err
	}
	issues := app.ToLintIssues(morph.Lint(app.ToMorphemes(lex.Morphemes)))
	return &socket.LintResult{Lexicon: lex.Meta.Name, Issues: issues, Count: len(issues)}, nil
}

func lintStored(name string) (*socket.LintResult, error) {
	b, err := openBackend()
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return b.Lint(name)
}

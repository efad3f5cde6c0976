package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/corey/radiko/internal/adapters/ahocorasick"
	"github.com/corey/radiko/internal/adapters/socket"
	"github.com/corey/radiko/internal/domain/morph"
	"github.com/corey/radiko/internal/ports"
)

var (
	// ErrLexiconNotFound is returned when a named lexicon is not stored.
	ErrLexiconNotFound = errors.New("lexicon not found")
	// ErrNoLexicon is returned when no lexicon was named, no default is
	// configured and the store does not hold exactly one lexicon.
	ErrNoLexicon = errors.New("no lexicon selected")
)

// Service answers decomposition and lexicon requests against a store. It
// implements socket.Service for the daemon and is used directly by the CLI
// when no daemon is running.
type Service struct {
	store  ports.Storage
	loader ports.LexiconLoader
	cfg    Config
	log    *zap.Logger
	rate   *ThroughputTracker
}

// NewService creates a service. A nil logger discards logs.
func NewService(store ports.Storage, loader ports.LexiconLoader, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:  store,
		loader: loader,
		cfg:    cfg,
		log:    log,
		rate:   NewThroughputTracker(5 * time.Minute),
	}
}

var _ socket.Service = (*Service)(nil)

// Decompose segments every word of params. Usage is recorded against the
// lexicon when one is used. A word that exceeds the state limit gets an
// error in its result; cancellation aborts the whole request.
func (s *Service) Decompose(ctx context.Context, params socket.DecomposeParams) (socket.DecomposeResult, error) {
	start := time.Now()

	name, entries, err := s.inventory(params.Lexicon, params.Morphemes, params.ByValue())
	if err != nil {
		return socket.DecomposeResult{}, err
	}

	results, usage, err := DecomposeWords(ctx, params.Words, ToMorphemes(entries), s.cfg.StateLimit, s.log.With(zap.String("lexicon", name)))
	if err != nil {
		return socket.DecomposeResult{}, err
	}

	s.rate.Record(len(results))
	if name != "" {
		if err := s.store.RecordUsage(name, usage); err != nil {
			s.log.Warn("record usage", zap.String("lexicon", name), zap.Error(err))
		}
	}

	return socket.DecomposeResult{
		Lexicon: name,
		Results: results,
		Elapsed: time.Since(start).String(),
	}, nil
}

// DecomposeWords runs one segmenter over words. The segmenter (and its
// sorted inventory) is private to this call; every word gets a fresh memo.
func DecomposeWords(ctx context.Context, words []string, ms []morph.Morpheme, limit int, log *zap.Logger) ([]socket.WordResult, ports.Usage, error) {
	if log == nil {
		log = zap.NewNop()
	}
	seg := morph.New(ms, morph.WithMatcher(ahocorasick.Build), morph.WithStateLimit(limit))

	var usage ports.Usage
	results := make([]socket.WordResult, 0, len(words))
	for _, w := range words {
		start := time.Now()
		out, stats, err := seg.DecomposeContext(ctx, w)
		if err != nil && !errors.Is(err, morph.ErrStateLimit) {
			return nil, usage, err
		}

		wr := ToWordResult(w, out, stats, err)
		results = append(results, wr)

		usage.Decompositions++
		if wr.Failed || wr.Error != "" {
			usage.Failures++
		}
		if wr.Corrected {
			usage.Corrections++
		}

		log.Debug("decomposed",
			zap.String("word", w),
			zap.Int("pieces", len(wr.Segments)),
			zap.Bool("failed", wr.Failed),
			zap.Int("states", stats.States),
			zap.Duration("elapsed", time.Since(start)),
			zap.NamedError("abort", err),
		)
	}
	return results, usage, nil
}

// Lint checks a stored lexicon or an inventory passed by value.
func (s *Service) Lint(params socket.LintParams) (socket.LintResult, error) {
	name, entries, err := s.inventory(params.Lexicon, params.Morphemes, params.ByValue())
	if err != nil {
		return socket.LintResult{}, err
	}
	issues := ToLintIssues(morph.Lint(ToMorphemes(entries)))
	return socket.LintResult{Lexicon: name, Issues: issues, Count: len(issues)}, nil
}

// Lexicons lists stored lexicons with their usage counters.
func (s *Service) Lexicons() (socket.LexiconsResult, error) {
	metas, err := s.store.ListLexicons()
	if err != nil {
		return socket.LexiconsResult{}, fmt.Errorf("list lexicons: %w", err)
	}
	res := socket.LexiconsResult{
		Lexicons: make([]socket.LexiconInfo, 0, len(metas)),
		Count:    len(metas),
		Default:  s.cfg.DefaultLexicon,
	}
	for _, m := range metas {
		u, err := s.store.LoadUsage(m.Name)
		if err != nil {
			return socket.LexiconsResult{}, fmt.Errorf("load usage for %q: %w", m.Name, err)
		}
		res.Lexicons = append(res.Lexicons, socket.LexiconInfo{LexiconMeta: m, Usage: u})
	}
	return res, nil
}

// Import loads the lexicon file at params.Path and stores it, replacing any
// lexicon of the same name. Lint issues are counted but do not block the import.
func (s *Service) Import(params socket.ImportParams) (socket.ImportResult, error) {
	path, err := filepath.Abs(params.Path)
	if err != nil {
		return socket.ImportResult{}, err
	}
	if !s.loader.Supports(strings.ToLower(filepath.Ext(path))) {
		return socket.ImportResult{}, fmt.Errorf("unsupported lexicon file %s", path)
	}

	lex, err := s.loader.Load(path)
	if err != nil {
		return socket.ImportResult{}, fmt.Errorf("load lexicon: %w", err)
	}
	if params.Name != "" {
		lex.Meta.Name = params.Name
	}
	lex.Meta.Source = path
	lex.Meta.Count = len(lex.Morphemes)
	lex.Meta.ImportedAt = time.Now().Unix()

	if err := s.store.SaveLexicon(lex); err != nil {
		return socket.ImportResult{}, fmt.Errorf("save lexicon: %w", err)
	}

	issues := morph.Lint(ToMorphemes(lex.Morphemes))
	s.log.Info("lexicon imported",
		zap.String("lexicon", lex.Meta.Name),
		zap.String("source", path),
		zap.Int("morphemes", lex.Meta.Count),
		zap.Int("issues", len(issues)),
	)
	return socket.ImportResult{Name: lex.Meta.Name, Count: lex.Meta.Count, Issues: len(issues)}, nil
}

// Remove deletes a stored lexicon.
func (s *Service) Remove(name string) error {
	lex, err := s.store.LoadLexicon(name)
	if err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}
	if lex == nil {
		return fmt.Errorf("%w: %q", ErrLexiconNotFound, name)
	}
	if err := s.store.DeleteLexicon(name); err != nil {
		return fmt.Errorf("delete lexicon: %w", err)
	}
	s.log.Info("lexicon removed", zap.String("lexicon", name))
	return nil
}

// Stats sums usage over all stored lexicons.
func (s *Service) Stats() (socket.StatsResult, error) {
	list, err := s.Lexicons()
	if err != nil {
		return socket.StatsResult{}, err
	}
	res := socket.StatsResult{
		LexiconCount:   list.Count,
		DefaultLexicon: s.cfg.DefaultLexicon,
		StateLimit:     s.cfg.StateLimit,
		WordsPerMin:    s.rate.WordsPerMin(),
		SessionWords:   s.rate.Total(),
	}
	for _, l := range list.Lexicons {
		res.MorphemeCount += l.Count
		res.Decompositions += l.Usage.Decompositions
		res.Failures += l.Usage.Failures
		res.Corrections += l.Usage.Corrections
	}
	return res, nil
}

// inventory picks the morphemes for a request: the inline entries when the
// request carries them (possibly none), otherwise the named (or default)
// stored lexicon. The returned name is empty for inline entries.
func (s *Service) inventory(name string, inline []ports.MorphemeEntry, byValue bool) (string, []ports.MorphemeEntry, error) {
	if byValue {
		return "", inline, nil
	}
	name, err := s.ResolveLexicon(name)
	if err != nil {
		return "", nil, err
	}
	lex, err := s.store.LoadLexicon(name)
	if err != nil {
		return "", nil, fmt.Errorf("load lexicon: %w", err)
	}
	if lex == nil {
		return "", nil, fmt.Errorf("%w: %q", ErrLexiconNotFound, name)
	}
	return name, lex.Morphemes, nil
}

// ResolveLexicon returns name, or the configured default, or the only stored
// lexicon.
func (s *Service) ResolveLexicon(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if s.cfg.DefaultLexicon != "" {
		return s.cfg.DefaultLexicon, nil
	}
	metas, err := s.store.ListLexicons()
	if err != nil {
		return "", fmt.Errorf("list lexicons: %w", err)
	}
	if len(metas) == 1 {
		return metas[0].Name, nil
	}
	return "", fmt.Errorf("%w: %d lexicons stored, pass one by name or set default_lexicon", ErrNoLexicon, len(metas))
}

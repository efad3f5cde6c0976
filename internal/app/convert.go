package app

import (
	"github.com/corey/radiko/internal/adapters/socket"
	"github.com/corey/radiko/internal/domain/morph"
	"github.com/corey/radiko/internal/ports"
)

// ToMorphemes converts stored entries into domain morphemes.
func ToMorphemes(entries []ports.MorphemeEntry) []morph.Morpheme {
	ms := make([]morph.Morpheme, len(entries))
	for i, e := range entries {
		ms[i] = morph.Morpheme{
			ID:                  e.ID,
			Text:                e.Text,
			Kind:                morph.Kind(e.Kind),
			AllowedPredecessors: e.AllowedPredecessors,
			AllowedSuccessors:   e.AllowedSuccessors,
			Gloss:               e.Gloss,
		}
	}
	return ms
}

// ToWordResult converts one decomposition to its wire form. err is the
// search abort (state limit) if any, in which case seg is empty.
func ToWordResult(word string, seg morph.Segmentation, stats morph.Stats, err error) socket.WordResult {
	wr := socket.WordResult{
		Word:      word,
		Segments:  make([]socket.SegmentInfo, 0, len(seg.Segments)),
		Failed:    seg.Failed,
		Score:     morph.Score(seg.Segments),
		States:    stats.States,
		MemoHits:  stats.MemoHits,
		Corrected: stats.Corrected,
	}
	if err != nil {
		wr.Error = err.Error()
	}
	if seg.Failed {
		wr.Score = 0
	}
	for _, s := range seg.Segments {
		info := socket.SegmentInfo{
			Text:  s.Rendering.Text,
			Kind:  string(s.Rendering.Kind),
			Gloss: s.Rendering.Gloss,
		}
		if s.Morpheme != nil {
			info.MorphemeID = s.Morpheme.ID
		}
		wr.Segments = append(wr.Segments, info)
	}
	return wr
}

// ToLintIssues converts lint findings to their wire form.
func ToLintIssues(issues []morph.Issue) []socket.LintIssue {
	out := make([]socket.LintIssue, len(issues))
	for i, is := range issues {
		out[i] = socket.LintIssue{Index: is.Index, ID: is.ID, Text: is.Text, Problem: is.Problem}
	}
	return out
}

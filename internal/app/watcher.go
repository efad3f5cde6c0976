package app

import (
	"os"

	"go.uber.org/zap"

	"github.com/corey/radiko/internal/adapters/socket"
)

// onLexiconChanged handles a create/modify/delete event from the watcher.
// A file that still exists is reimported. A removed file drops every stored
// lexicon that was imported from it.
func (a *App) onLexiconChanged(absPath string) {
	if _, err := os.Stat(absPath); err == nil {
		if _, err := a.Service.Import(socket.ImportParams{Path: absPath}); err != nil {
			a.Log.Warn("reimport lexicon", zap.String("path", absPath), zap.Error(err))
		}
		return
	}

	metas, err := a.Store.ListLexicons()
	if err != nil {
		a.Log.Warn("list lexicons", zap.Error(err))
		return
	}
	for _, m := range metas {
		if m.Source != absPath {
			continue
		}
		if err := a.Service.Remove(m.Name); err != nil {
			a.Log.Warn("remove lexicon", zap.String("lexicon", m.Name), zap.Error(err))
		}
	}
}

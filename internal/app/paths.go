package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .radiko/ workspace directory.
// All fields are pre-computed strings.
type Paths struct {
	Root   string // .radiko/
	DB     string // .radiko/radiko.db
	Config string // .radiko/config.yaml
	Env    string // .env next to .radiko/

	LogDir    string // .radiko/log/
	DaemonLog string // .radiko/log/daemon.log

	RunDir  string // .radiko/run/
	PIDFile string // .radiko/run/daemon.pid

	LexiconDir string // .radiko/lexicons/ (default watch directory)
}

// NewPaths constructs all resolved paths from a workspace root directory.
func NewPaths(workspace string) *Paths {
	root := filepath.Join(workspace, ".radiko")
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "radiko.db"),
		Config: filepath.Join(root, "config.yaml"),
		Env:    filepath.Join(workspace, ".env"),

		LogDir:    filepath.Join(root, "log"),
		DaemonLog: filepath.Join(root, "log", "daemon.log"),

		RunDir:  filepath.Join(root, "run"),
		PIDFile: filepath.Join(root, "run", "daemon.pid"),

		LexiconDir: filepath.Join(root, "lexicons"),
	}
}

// EnsureDirs creates all subdirectories under .radiko/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir, p.LexiconDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes ephemeral runtime files (PID file).
// Called on clean daemon shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
}

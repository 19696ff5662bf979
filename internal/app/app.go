// Package app carries the process-wide singletons: the configured HTTP
// fetcher, the parser regex bundle, the USPS client, the configs and the
// logger. The orchestrator entry point builds one App and passes it
// explicitly to every component; there are no hidden globals.
package app

import (
	"log/slog"
	"path/filepath"

	"github.com/civicpost/internal/config"
	"github.com/civicpost/internal/fetch"
	"github.com/civicpost/internal/parse"
	"github.com/civicpost/internal/usps"
)

// App is the shared component context. All fields are read-only after
// initialization.
type App struct {
	Cfg      *config.Config
	MailCfg  *config.MailingCfg
	Fetcher  *fetch.Fetcher
	Parser   *parse.Parser
	USPS     *usps.Client
	Rewrites parse.RewriteTable
	Log      *slog.Logger
}

// StatePath resolves a state file name inside the configured state
// directory.
func (a *App) StatePath(name string) string {
	return filepath.Join(a.Cfg.StateDir, name)
}

// Command mailer runs the full pipeline: load every roster (from disk or
// the source sites), collate the persons, presort and barcode the
// mailpieces and emit the quarter's envelope, letter and postage
// statement PDFs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/civicpost/internal/app"
	"github.com/civicpost/internal/config"
	"github.com/civicpost/internal/fetch"
	"github.com/civicpost/internal/logging"
	"github.com/civicpost/internal/mailing"
	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/parse"
	"github.com/civicpost/internal/roster"
	"github.com/civicpost/internal/usps"
	"github.com/civicpost/internal/version"
)

func main() {
	var (
		configPath  = flag.String("config", "config.json", "Path to configuration file")
		mailCfgPath = flag.String("mailing-config", "mailing_cfg.json", "Path to mailing configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("civicpost mailer %s\n", version.Full())
		os.Exit(0)
	}

	if err := run(*configPath, *mailCfgPath); err != nil {
		log.Fatalf("mailer: %v", err)
	}
}

func run(configPath, mailCfgPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	mailCfg, err := config.LoadMailingCfg(mailCfgPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Close()
	lg := logger.Slog()

	httpClient := &http.Client{Timeout: cfg.Timeout()}

	var cache *usps.LookupCache
	if cfg.LookupCache.Enabled {
		cache, err = usps.OpenLookupCache(usps.LookupCacheConfig{
			Path:    cfg.LookupCache.Path,
			TTLDays: cfg.LookupCache.TTLDays,
		})
		if err != nil {
			return err
		}
		defer cache.Close()
	}

	var rewrites parse.RewriteTable
	if cfg.RewritesPath != "" {
		rewrites, err = parse.LoadRewrites(cfg.RewritesPath)
		if err != nil {
			return err
		}
	}

	a := &app.App{
		Cfg:      cfg,
		MailCfg:  mailCfg,
		Fetcher:  fetch.New(httpClient, cfg.CacheDir, cfg.UserAgent, lg),
		Parser:   parse.NewParser(),
		USPS:     usps.NewClient(httpClient, cfg.LookupURL, cfg.EncoderURL, cache, lg),
		Rewrites: rewrites,
		Log:      lg,
	}

	ctx := context.Background()

	// Load rosters from disk or the network, in a fixed order so the
	// run is deterministic.
	loaders := []func(context.Context, *app.App) (*model.Roster, error){
		roster.LoadMilitary,
		roster.LoadNasa,
		roster.LoadExecutive,
		roster.LoadSenate,
		roster.LoadHouse,
		roster.LoadGovernors,
		roster.LoadObserver,
	}
	var persons []model.Person
	for _, load := range loaders {
		r, err := load(ctx, a)
		if err != nil {
			return err
		}
		persons = append(persons, r.Persons...)
	}
	lg.Info("rosters loaded", logging.Count("person", len(persons)))

	m, err := mailing.Load(ctx, a, persons)
	if err != nil {
		return err
	}
	lg.Info("mailing complete",
		logging.Count("mailpiece", m.MailpieceCnt),
		logging.Count("tray", len(m.Trays)),
	)

	// Advance the serial counter only after the mailing committed. A
	// rerun that reloaded a persisted mailing leaves it untouched.
	maxID := mailCfg.LastMailpieceID
	for _, tray := range m.Trays {
		for _, mp := range tray.Mailpieces {
			if mp.ID > maxID {
				maxID = mp.ID
			}
		}
	}
	if maxID != mailCfg.LastMailpieceID {
		mailCfg.LastMailpieceID = maxID
		if err := mailCfg.Save(mailCfgPath); err != nil {
			return err
		}
	}
	return nil
}

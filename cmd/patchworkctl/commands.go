package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"patchwork/internal/app"
	"patchwork/internal/catalog"
	"patchwork/internal/config"
	"patchwork/internal/persistence/journal"
	"patchwork/internal/persistence/results"
)

// setup is a loaded rules file and the catalog it names.
type setup struct {
	cfg config.Config
	cat catalog.Catalog
}

func loadSetup(rulesPath, catalogPath string) (setup, error) {
	cfg, err := config.Load(rulesPath)
	if err != nil {
		return setup{}, err
	}
	if catalogPath != "" {
		cfg.Catalog = catalogPath
	}
	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return setup{}, err
	}
	return setup{cfg: cfg, cat: cat}, nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runValidate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	rulesPath := fs.String("rules", "configs/rules.yaml", "rules file")
	catalogPath := fs.String("catalog", "", "patch catalog (overrides the rules file)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := loadSetup(*rulesPath, *catalogPath)
	if err != nil {
		return err
	}
	rules, err := s.cfg.Rules(rand.New(rand.NewSource(s.cfg.Seed)))
	if err != nil {
		return err
	}
	return encodeJSON(stdout, map[string]any{
		"variant":        s.cfg.Variant,
		"players":        rules.Players,
		"board":          fmt.Sprintf("%dx%d", rules.BoardWidth, rules.BoardHeight),
		"track_length":   rules.TrackLength,
		"income_rule":    rules.IncomeRule,
		"catalog":        s.cfg.Catalog,
		"catalog_size":   len(s.cat.Select(s.cfg.BaseOnly())),
		"catalog_sha256": s.cat.Digest,
	})
}

func runSimulate(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	rulesPath := fs.String("rules", "configs/rules.yaml", "rules file")
	catalogPath := fs.String("catalog", "", "patch catalog (overrides the rules file)")
	games := fs.Int("games", 1, "number of games to play")
	seed := fs.Int64("seed", 0, "random seed (0 uses the rules file, then the clock)")
	journalDir := fs.String("journal", "", "directory for per-game journals")
	dbPath := fs.String("db", "", "results database")
	secret := fs.String("secret", "", "sign a scorecard for each game with this HS256 secret")
	issuer := fs.String("issuer", "patchworkctl", "scorecard issuer")
	dev := fs.Bool("dev", false, "development logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := newLogger(*dev)
	if err != nil {
		return err
	}
	defer log.Sync()

	s, err := loadSetup(*rulesPath, *catalogPath)
	if err != nil {
		return err
	}
	if *seed == 0 {
		*seed = s.cfg.Seed
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	rules, err := s.cfg.Rules(rng)
	if err != nil {
		return err
	}

	opts := []app.Option{app.WithLogger(log), app.WithCatalogDigest(s.cat.Digest)}
	var writer *journal.Writer
	if *journalDir != "" {
		writer = journal.NewWriter(*journalDir)
		defer writer.Close()
		opts = append(opts, app.WithJournal(writer))
	}
	var store *results.Store
	if *dbPath != "" {
		if store, err = results.Open(*dbPath); err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, app.WithResults(store))
	}
	var signer *app.ScorecardSigner
	if *secret != "" {
		signer = app.NewScorecardSigner(*secret, *issuer, 0)
	}

	svc := app.NewService(rules, s.cat.Select(s.cfg.BaseOnly()), rng, opts...)
	runner := app.NewRunner(svc, firstFit{})
	log.Info("simulating", zap.Int("games", *games), zap.Int64("seed", *seed))

	for i := 0; i < *games; i++ {
		game, _, err := svc.StartNewGame(ctx, app.NewGameParams{Players: s.cfg.Players})
		if err != nil {
			return err
		}
		if _, err := runner.Play(ctx, game); err != nil {
			return fmt.Errorf("game %s: %w", game.ID, err)
		}
		if writer != nil {
			if err := writer.CloseGame(game.ID); err != nil {
				return err
			}
		}

		res, _ := svc.Result(game)
		out := map[string]any{"result": res}
		if writer != nil {
			out["journal"] = writer.Path(game.ID)
		}
		if signer != nil {
			token, err := signer.Sign(res)
			if err != nil {
				return err
			}
			out["scorecard"] = token
		}
		if err := encodeJSON(stdout, out); err != nil {
			return err
		}
	}
	return nil
}

func runResults(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("results", flag.ContinueOnError)
	dbPath := fs.String("db", "data/results.db", "results database")
	limit := fs.Int("limit", 20, "maximum results (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := results.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.ListResults(ctx, *limit)
	if err != nil {
		return err
	}
	return encodeJSON(stdout, list)
}

func runJournal(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("journal", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: journal <file.jsonl.zst>", errUsage)
	}

	entries, err := journal.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func runVerify(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	secret := fs.String("secret", "", "HS256 secret")
	issuer := fs.String("issuer", "patchworkctl", "expected issuer")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *secret == "" {
		return fmt.Errorf("%w: verify -secret <secret> <token>", errUsage)
	}

	card, err := app.NewScorecardSigner(*secret, *issuer, 0).Verify(fs.Arg(0))
	if err != nil {
		return err
	}
	return encodeJSON(stdout, card)
}

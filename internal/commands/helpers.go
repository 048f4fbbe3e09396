package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/grandlivre-dev/grandlivre/internal/coa"
	"github.com/grandlivre-dev/grandlivre/internal/config"
	"github.com/grandlivre-dev/grandlivre/internal/events"
	"github.com/grandlivre-dev/grandlivre/internal/events/kafka"
	"github.com/grandlivre-dev/grandlivre/internal/fx"
	"github.com/grandlivre-dev/grandlivre/internal/journal"
	"github.com/grandlivre-dev/grandlivre/internal/store"
	"github.com/grandlivre-dev/grandlivre/internal/store/postgres"
	"github.com/grandlivre-dev/grandlivre/internal/store/sqlite"
)

const dateFormat = "2006-01-02"

// env bundles everything a command needs: config, open store, the in-memory
// chart, and the poster wired with the configured policy and publisher.
type env struct {
	cfg       *config.Config
	store     store.LedgerStore
	chart     *coa.Service
	poster    *journal.Poster
	converter *fx.Converter
	dataDir   string
	closers   []func() error
}

func loadEnv(configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Company.ID == "" {
		return nil, fmt.Errorf("config %s has no company id", configPath)
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, store: st, dataDir: filepath.Dir(configPath)}
	e.closers = append(e.closers, st.Close)

	accounts, err := st.ListAccounts(context.Background(), cfg.Company.ID)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("loading chart of accounts: %w", err)
	}
	e.chart = coa.NewService(accounts)

	tolerance, err := cfg.Ledger.ToleranceDecimal()
	if err != nil {
		e.Close()
		return nil, err
	}
	policy := journal.Policy{Tolerance: tolerance}

	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		topic := cfg.Kafka.Topic
		if topic == "" {
			topic = events.TopicMovePosted
		}
		kp := kafka.NewPublisher(cfg.Kafka.Brokers, topic)
		publisher = kp
		e.closers = append(e.closers, kp.Close)
	}

	e.poster = journal.NewPoster(st, e.chart, policy, publisher)

	defaults, err := cfg.FX.DefaultRatesDecimal()
	if err != nil {
		e.Close()
		return nil, err
	}
	e.converter = fx.NewConverter(st, defaults)

	return e, nil
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

func openStore(cfg *config.Config) (store.LedgerStore, error) {
	switch cfg.Database.Driver {
	case "", "sqlite":
		path := cfg.Database.Path
		if path == "" {
			path = "grandlivre.db"
		}
		return sqlite.Open(path)
	case "postgres":
		if cfg.Database.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires database.dsn")
		}
		return postgres.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// Package cli is the presentation shell: it parses flags, calls into the
// engine and query services, and renders rows. No business logic lives
// here.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mkowalczyk/goldvault/internal/adapter/repository/sqlite"
	"github.com/mkowalczyk/goldvault/internal/config"
	"github.com/mkowalczyk/goldvault/internal/domain"
	"github.com/mkowalczyk/goldvault/internal/usecase/ledger"
	"github.com/mkowalczyk/goldvault/internal/usecase/query"
)

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Commands returns every vault subcommand, wired to cfg.
func Commands(cfg *config.Config) []subcommands.Command {
	return []subcommands.Command{
		&addItemCmd{cfg: cfg},
		&itemsCmd{cfg: cfg},
		&categoriesCmd{cfg: cfg},
		&inventoryCmd{cfg: cfg},
		&recordCmd{cfg: cfg},
		&editCmd{cfg: cfg},
		&deleteCmd{cfg: cfg},
		&historyCmd{cfg: cfg},
		&showCmd{cfg: cfg},
	}
}

// services bundles an open store with the engine and query surfaces built
// on top of it.
type services struct {
	db      *sqlite.DB
	engine  *ledger.Service
	queries *query.Service
}

func openServices(cfg *config.Config) (*services, error) {
	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	items := sqlite.NewItemRepository(db)
	transactions := sqlite.NewTransactionRepository(db)

	return &services{
		db:      db,
		engine:  ledger.NewService(db, items, transactions),
		queries: query.NewService(items, transactions),
	}, nil
}

func (s *services) Close() {
	if err := s.db.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close database")
	}
}

// withServices opens the store, runs fn and maps errors to an exit status.
func withServices(cfg *config.Config, fn func(*services) error) subcommands.ExitStatus {
	svc, err := openServices(cfg)
	if err != nil {
		logger.Error().Err(err).Str("db", cfg.DatabasePath).Msg("failed to open database")
		return subcommands.ExitFailure
	}
	defer svc.Close()

	if err := fn(svc); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// parseDecimal parses a required positive-looking flag value; the engine
// does the real range validation.
func parseDecimal(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return d, nil
}

// parseKind maps the user-facing kind flag to the domain kind.
func parseKind(value string) (domain.Kind, error) {
	switch value {
	case "buy":
		return domain.KindBuy, nil
	case "sell":
		return domain.KindSell, nil
	case "":
		return "", nil
	default:
		return "", errors.New(`kind must be "buy" or "sell"`)
	}
}

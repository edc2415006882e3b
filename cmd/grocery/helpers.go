package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dukerupert/grocerymate/internal/account"
	"github.com/dukerupert/grocerymate/internal/config"
	"github.com/dukerupert/grocerymate/internal/database"
	"github.com/dukerupert/grocerymate/internal/grocery"
	"github.com/dukerupert/grocerymate/internal/local"
	"github.com/dukerupert/grocerymate/internal/logging"
	"github.com/dukerupert/grocerymate/internal/notify"
	"github.com/dukerupert/grocerymate/internal/remote"
	"github.com/dukerupert/grocerymate/internal/server"
	"github.com/dukerupert/grocerymate/internal/store"
)

// app is the state one command works against.
type app struct {
	cfg       *config.Config
	kv        *store.KVStore
	adapter   *local.Adapter
	accounts  *account.Store
	groceries *grocery.Store
	notifier  notify.Notifier
	logger    *slog.Logger
}

func withApp(run func(*app) error) error {
	cfg, err := config.Load(envPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	// Logs go to stderr so command output stays clean.
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	kv := store.NewKVStore(db)
	adapter := local.NewAdapter(kv)
	notifier := notify.Log{Logger: logger.With("component", "notify")}
	client := remote.NewClient(server.NewFacade(cfg, adapter, logger))

	accounts, err := account.NewStore(adapter, client,
		account.WithNotifier(notifier),
		account.WithLogger(logger.With("component", "account")),
	)
	if err != nil {
		return fmt.Errorf("account store: %w", err)
	}
	groceries := grocery.NewStore(adapter, client, accounts,
		grocery.WithNotifier(notifier),
		grocery.WithLogger(logger.With("component", "grocery")),
	)
	defer groceries.Wait()

	return run(&app{
		cfg:       cfg,
		kv:        kv,
		adapter:   adapter,
		accounts:  accounts,
		groceries: groceries,
		notifier:  notifier,
		logger:    logger,
	})
}

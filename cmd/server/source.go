package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/afamplan/internal/config"
	"github.com/JonMunkholm/afamplan/internal/reference"
)

// buildSource returns the configured reference source and a func releasing
// what it holds.
func buildSource(ctx context.Context, cfg *config.Config) (reference.Source, func(), error) {
	rc := cfg.Reference
	switch rc.Source {
	case config.SourceFile:
		return reference.FileSource{Path: rc.Path}, func() {}, nil

	case config.SourceHTTP:
		client := &http.Client{Timeout: rc.FetchTimeout}
		return reference.HTTPSource{URL: rc.URL, Client: client}, func() {}, nil

	case config.SourcePostgres:
		pool, err := openPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return reference.PostgresSource{DB: pool, Query: rc.Query}, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown reference source %q", rc.Source)
}

// openPool connects and pings the database.
func openPool(ctx context.Context, dc config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dc.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(dc.MaxConns)
	poolConfig.MinConns = int32(dc.MinConns)
	poolConfig.MaxConnLifetime = dc.MaxConnLifetime
	poolConfig.MaxConnIdleTime = dc.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping database: %w", reference.ErrFetch, err)
	}

	slog.Info("connected to database", "max_conns", poolConfig.MaxConns)
	return pool, nil
}

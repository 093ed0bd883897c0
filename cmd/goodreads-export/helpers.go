package main

import (
	"fmt"

	"github.com/at-ishikawa/goodreads-export/internal/config"
	"github.com/at-ishikawa/goodreads-export/internal/goodreads"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func newClient(cfg config.GoodreadsConfig, token string) *goodreads.Client {
	return goodreads.NewClient(goodreads.Config{
		BaseURL:         cfg.BaseURL,
		APIKey:          token,
		UserAgent:       cfg.UserAgent,
		Timeout:         cfg.Timeout,
		RequestInterval: cfg.RequestInterval,
		RetryAttempts:   cfg.RetryAttempts,
		PageSize:        cfg.PageSize,
		ShelfPageSize:   cfg.ShelfPageSize,
	})
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/opencouncil/finsight/internal/services"
	"github.com/opencouncil/finsight/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	httpClient := &http.Client{Timeout: time.Duration(config.API.TimeoutSeconds) * time.Second}
	client := services.NewClient(config.API.BaseURL, httpClient)
	client.SetRateLimit(config.API.RateLimit)

	if config.API.AuthFile != "" {
		if _, err := os.Stat(config.API.AuthFile); err == nil {
			if auth, err := shared.ParseCurlFile(config.API.AuthFile); err == nil {
				client.SetAuth(auth)
			} else {
				logger.Warn("failed to parse auth file", "path", config.API.AuthFile, "error", err)
			}
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:        config,
		ConfigPath:    configPath,
		Client:        client,
		Insights:      services.NewInsightService(client),
		Contributions: services.NewContributionService(client),
		Fields:        services.NewFieldService(client),
		Moderation:    services.NewModerationService(client),
		HTTPClient:    httpClient,
		Logger:        logger,
	})

	app := &cli.Command{
		Name:     "finsight",
		Usage:    "Explore and contribute council finance insights from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

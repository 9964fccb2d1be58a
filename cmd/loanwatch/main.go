// Loanwatch periodically checks the inventory API for loans close to their
// return date and posts a reminder digest to a webhook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/ortobank/ortobank/internal/reminder"
)

func main() {
	var envPath string
	var once bool
	flag.StringVar(&envPath, "env", "", "path to .env file (default: .env if present)")
	flag.BoolVar(&once, "once", false, "run a single pass and exit")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			slog.Error("loading env file", "path", envPath, "error", err)
			os.Exit(1)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, schedule, err := loadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	notifier := reminder.New(cfg)

	if once {
		if err := notifier.Run(context.Background()); err != nil {
			slog.Error("reminder pass failed", "error", err)
			os.Exit(1)
		}
		return
	}

	c := cron.New()
	_, err = c.AddFunc(schedule, func() {
		if err := notifier.Run(context.Background()); err != nil {
			slog.Error("reminder pass failed", "error", err)
		}
	})
	if err != nil {
		slog.Error("invalid cron schedule", "schedule", schedule, "error", err)
		os.Exit(1)
	}

	c.Start()
	slog.Info("loanwatch started", "schedule", schedule, "api", cfg.APIURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Wait for any in-flight pass to finish.
	<-c.Stop().Done()
}

func loadConfig() (reminder.Config, string, error) {
	cfg := reminder.Config{
		APIURL:     os.Getenv("API_URL"),
		APIKey:     os.Getenv("API_KEY"),
		WebhookURL: os.Getenv("WEBHOOK_URL"),
	}
	if cfg.APIURL == "" {
		return cfg, "", fmt.Errorf("API_URL not set")
	}
	if cfg.APIKey == "" {
		return cfg, "", fmt.Errorf("API_KEY not set")
	}
	if cfg.WebhookURL == "" {
		return cfg, "", fmt.Errorf("WEBHOOK_URL not set")
	}

	if v := os.Getenv("WITHIN_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, "", fmt.Errorf("WITHIN_DAYS must be a positive integer")
		}
		cfg.WithinDays = n
	}

	schedule := os.Getenv("CRON_SCHEDULE")
	if schedule == "" {
		// Every day at 09:00.
		schedule = "0 9 * * *"
	}
	return cfg, schedule, nil
}

// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/classtrack/attendance-service/internal/logging"
)

// flags are the command line flags for the attendance service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the attendance service.
type environment struct {
	Port    string `env:"PORT" envDefault:"8080"`
	NatsURL string `env:"NATS_URL" envDefault:"nats://localhost:4222"`

	// Stream webhook authentication. The service refuses to start without
	// these because every inbound delivery must be verifiable.
	StreamAPIKey        string `env:"STREAM_API_KEY,required"`
	StreamWebhookSecret string `env:"STREAM_WEBHOOK_SECRET,required"`

	// Webhook deduplication.
	DedupBackend    string        `env:"WEBHOOK_DEDUP_BACKEND" envDefault:"nats"`
	DedupTTL        time.Duration `env:"WEBHOOK_DEDUP_TTL" envDefault:"24h"`
	DedupMaxEntries int           `env:"WEBHOOK_DEDUP_MAX_ENTRIES" envDefault:"10000"`

	// Summary generation.
	OpenAIAPIKey  string `env:"OPENAI_API_KEY,required"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL"`

	// PDF report output.
	ReportOutputDir string `env:"REPORT_OUTPUT_DIR" envDefault:"pdfs"`

	// Email delivery. When SMTPHost is empty the email service is disabled
	// and summary reports are kept on disk instead.
	SMTPHost          string   `env:"SMTP_HOST"`
	SMTPPort          int      `env:"SMTP_PORT" envDefault:"587"`
	SMTPFrom          string   `env:"SMTP_FROM"`
	SMTPUsername      string   `env:"SMTP_USERNAME"`
	SMTPPassword      string   `env:"SMTP_PASSWORD"`
	SummaryRecipients []string `env:"SUMMARY_RECIPIENTS" envSeparator:","`
	EmailWorkerCount  int      `env:"SUMMARY_EMAIL_WORKERS" envDefault:"4"`
}

// parseFlags parses command line flags for the attendance service.
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the attendance service. A local
// .env file is loaded first when present so development setups do not need to
// export everything.
func parseEnv() environment {
	_ = godotenv.Load()

	var e environment
	if err := env.Parse(&e); err != nil {
		slog.With(logging.ErrKey, err).Error("environment variables are invalid or missing")
		os.Exit(1)
	}

	return e
}

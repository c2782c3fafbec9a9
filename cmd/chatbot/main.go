// Package main runs an interactive console chat against a configured
// completion backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wolfman30/chatprompt/internal/api/router"
	appconfig "github.com/wolfman30/chatprompt/internal/config"
	"github.com/wolfman30/chatprompt/internal/llm"
	"github.com/wolfman30/chatprompt/internal/observability/metrics"
	"github.com/wolfman30/chatprompt/internal/profile"
	"github.com/wolfman30/chatprompt/internal/prompt"
	"github.com/wolfman30/chatprompt/pkg/logging"
)

const defaultSystemPrompt = `1. You are a helpful artificial intelligence assistant.
2. If the user doesn't tell you their name, always reply with 'Hello, fellow human being'.
   If the user tells you their name, always greet them with the name that they gave you.
3. If you don't know the answer to a question, just say 'I don't know'.`

type flags struct {
	provider    string
	model       string
	endpoint    string
	profilePath string
	saveProfile string
	metricsAddr string
	envFile     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "chatbot",
		Short:         "Chat with an LLM from the terminal",
		Long:          "chatbot keeps a conversation with a completion backend, composing each prompt from system instructions, memory and the new user line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(f.envFile); err != nil && cmd.Flags().Changed("env-file") {
				return fmt.Errorf("loading %s: %w", f.envFile, err)
			}
			cfg := appconfig.Load()
			applyFlags(cmd, &f, cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, f.saveProfile, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&f.provider, "provider", "", "Completion backend (openai, azure, ollama, bedrock, gemini, anthropic)")
	cmd.Flags().StringVar(&f.model, "model", "", "Model or deployment id")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "Backend base URL")
	cmd.Flags().StringVar(&f.profilePath, "profile", "", "YAML session profile to start from")
	cmd.Flags().StringVar(&f.saveProfile, "save-profile", "", "Write the session to this YAML profile on exit")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "Serve /health, /metrics and /session on this address")
	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "Environment file to load")
	return cmd
}

// applyFlags lets explicitly set flags override the environment.
func applyFlags(cmd *cobra.Command, f *flags, cfg *appconfig.Config) {
	set := cmd.Flags().Changed
	if set("provider") {
		cfg.LLMProvider = f.provider
	}
	if set("model") {
		cfg.LLMModelID = f.model
	}
	if set("endpoint") {
		cfg.LLMEndpoint = f.endpoint
	}
	if set("profile") {
		cfg.ProfilePath = f.profilePath
	}
	if set("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
}

func run(ctx context.Context, cfg *appconfig.Config, saveProfile string, in io.Reader, out io.Writer) error {
	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel)

	primary, err := cfg.PrimaryLLM()
	if err != nil {
		return err
	}
	fallback, err := cfg.FallbackLLM()
	if err != nil {
		return err
	}
	client, err := llm.NewWithFallback(ctx, primary, fallback, logger.Logger)
	if err != nil {
		return fmt.Errorf("creating completion backend: %w", err)
	}
	if closer, ok := client.(io.Closer); ok {
		defer closer.Close()
	}

	session, err := prompt.NewSession(client,
		prompt.WithLogger(logger),
		prompt.WithMetrics(metrics.NewChatMetrics(prometheus.DefaultRegisterer)),
		prompt.WithModelLabel(primary.ModelID),
		prompt.WithCompletionTimeout(cfg.LLMTimeout),
		prompt.WithOptions(cfg.PromptOptions()),
		prompt.WithSystemPrompt(firstNonEmpty(cfg.SystemPrompt, defaultSystemPrompt)),
	)
	if err != nil {
		return err
	}

	if cfg.ProfilePath != "" {
		p, err := profile.Load(cfg.ProfilePath)
		if err != nil {
			return err
		}
		if err := p.Apply(session); err != nil {
			return err
		}
		logger.Info("profile applied", "path", cfg.ProfilePath, "history_items", len(p.History))
	}

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr: cfg.MetricsAddr,
			Handler: router.New(&router.Config{
				Logger:         logger,
				MetricsHandler: promhttp.Handler(),
				Session:        session,
			}),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("ops server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("chat session started",
		"session_id", session.ID(),
		"provider", primary.Provider,
		"model", primary.ModelID,
		"fallback", fallback != nil,
	)
	if err := runConsole(ctx, session, in, out); err != nil {
		return err
	}

	if saveProfile != "" {
		if err := profile.Save(profile.FromSession(session), saveProfile); err != nil {
			return err
		}
		logger.Info("profile saved", "path", saveProfile)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gvieira/leadchat/internal/config"
	"github.com/gvieira/leadchat/internal/gateway"
	"github.com/gvieira/leadchat/internal/logger"
	"github.com/gvieira/leadchat/internal/persona"
	"github.com/gvieira/leadchat/internal/server"
	"github.com/gvieira/leadchat/internal/store"
)

var (
	cfgFile     string
	flagPort    int
	flagDB      string
	flagPersona string
)

var rootCmd = &cobra.Command{
	Use:   "leadchat",
	Short: "Conversational lead-capture web service",
	Long: `leadchat runs a chat web service that qualifies leads:
visitor messages are answered by a remote completion API under a fixed
sales persona, every exchange is persisted per browser session, and an
admin dashboard reports the captured leads.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to an optional YAML config file")
	rootCmd.Flags().IntVar(&flagPort, "port", 0, "Listening port (overrides PORT)")
	rootCmd.Flags().StringVar(&flagDB, "db", "", "Database URL (overrides DATABASE_URL)")
	rootCmd.Flags().StringVar(&flagPersona, "persona", "", "Persona name: sdr, clinica (overrides PERSONA)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagPort > 0 {
		cfg.Port = flagPort
	}
	if flagDB != "" {
		cfg.DatabaseURL = flagDB
	}
	if flagPersona != "" {
		cfg.Persona = flagPersona
	}

	logger.Init(cfg.Env)
	defer logger.Sync()
	log := logger.L()

	// Startup is deliberately tolerant: a missing API key or an
	// unreachable database leaves the matching component nil and the
	// service answers 500 on the affected endpoints only.
	st, err := store.Open(cfg.DatabaseURL, log.Named("store"))
	if err != nil {
		log.Error("store unavailable, starting degraded", zap.Error(err))
		st = nil
	} else {
		defer st.Close()
	}

	gw := buildGateway(cfg, log)

	srv := server.New(st, gw, cfg, log.Named("http"))
	printBanner(cfg, st, gw)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}
	return nil
}

// buildGateway wires the configured provider, or returns nil when the
// matching API key is absent.
func buildGateway(cfg *config.Config, log *zap.Logger) *gateway.Gateway {
	var provider gateway.Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		provider, err = gateway.NewAnthropicProvider(cfg.AnthropicAPIKey)
	default:
		provider, err = gateway.NewGroqProvider(cfg.GroqAPIKey, "")
	}
	if err != nil {
		log.Warn("completion provider not configured",
			zap.String("provider", cfg.Provider), zap.Error(err))
		return nil
	}

	p, ok := persona.Get(cfg.Persona)
	if !ok {
		log.Warn("unknown persona, using default", zap.String("persona", cfg.Persona))
		p = persona.Default()
	}

	return gateway.New(provider, p.SystemPrompt, gateway.Options{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		TopP:        cfg.LLM.TopP,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}, log.Named("gateway"))
}

func printBanner(cfg *config.Config, st *store.Store, gw *gateway.Gateway) {
	apiStatus := "não configurada"
	if gw != nil {
		apiStatus = "configurada"
	}
	dbStatus := cfg.DatabaseType()
	if st == nil {
		dbStatus += " (indisponível)"
	}

	fmt.Println("LEADCHAT")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Ambiente: %s\n", cfg.Env)
	fmt.Printf("Porta:    %d\n", cfg.Port)
	fmt.Printf("Banco:    %s\n", dbStatus)
	fmt.Printf("API:      %s (%s)\n", apiStatus, cfg.Provider)
	fmt.Printf("Persona:  %s\n", cfg.Persona)
	fmt.Printf("Admin:    http://localhost:%d/admin/leads\n", cfg.Port)
	fmt.Printf("Chat:     http://localhost:%d\n", cfg.Port)
	fmt.Println(strings.Repeat("=", 50))
}

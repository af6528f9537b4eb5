package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/xixi-finance/tracker/internal/config"
	"github.com/xixi-finance/tracker/internal/gemini"
	"github.com/xixi-finance/tracker/internal/handlers"
	"github.com/xixi-finance/tracker/internal/model"
	"github.com/xixi-finance/tracker/internal/producer"
	"github.com/xixi-finance/tracker/internal/repository"
	"github.com/xixi-finance/tracker/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// amounts serialize as bare JSON numbers, matching the stored ledger format
	decimal.MarshalJSONWithoutQuotes = true

	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found")
	}

	cfg := config.Config{}
	if err := env.Parse(&cfg); err != nil {
		logrus.Fatalf("couldn't parse config: %v", err)
	}

	ledger := openLedger(ctx, cfg.Redis)
	validate := validator.New()

	mutations := make(chan []model.Transaction, 16)
	store := service.NewStore(ledger, mutations)
	store.Load(ctx)

	geminiClient := gemini.NewClient(os.Getenv("GEMINI_API_KEY"), cfg.Gemini.Model,
		time.Duration(cfg.Gemini.TimeoutSeconds)*time.Second)
	analyzer := service.NewGeminiAnalyzer(geminiClient, validate, cfg.Advisor.MaxRecords)

	notify := startNotifier(ctx, cfg.Telegram)
	advisor := producer.NewAdvisor(analyzer, mutations,
		time.Duration(cfg.Advisor.QuietSeconds)*time.Second, notify)
	advisor.Produce(ctx)

	handler := handlers.New(store, advisor, validate)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Routes(),
	}
	go func() {
		logrus.Infof("http server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, os.Interrupt)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("http server shutdown: %v", err)
	}
}

// openLedger dials redis and falls back to the in-memory ledger when it is
// unreachable, so the tracker still runs without persistence.
func openLedger(ctx context.Context, cfg config.Redis) repository.Ledger {
	cli := redis.NewClient(&redis.Options{
		Addr:     cfg.Endpoint,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		logrus.Warnf("redis unreachable, ledger won't survive restarts: %v", err)
		return repository.NewLocalLedger()
	}
	logrus.Infof("connected to redis at %s", cfg.Endpoint)
	return repository.NewRedis(cli, cfg.LedgerKey)
}

// startNotifier wires the optional Telegram delivery of settled insights.
// It returns nil when no bot token is configured.
func startNotifier(ctx context.Context, cfg config.Telegram) chan *model.Insight {
	token := os.Getenv("TG_TOKEN")
	if token == "" || cfg.ChatID == 0 {
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logrus.Errorf("couldn't start telegram bot, insight delivery disabled: %v", err)
		return nil
	}

	insights := make(chan *model.Insight, 1)
	producer.NewNotifier(bot, cfg.ChatID, insights).Produce(ctx)
	return insights
}

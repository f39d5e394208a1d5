package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Falleiro/Finova/internal/config"
	"github.com/Falleiro/Finova/internal/domain/account"
	"github.com/Falleiro/Finova/internal/domain/investment"
	"github.com/Falleiro/Finova/internal/domain/notification"
	"github.com/Falleiro/Finova/internal/domain/transaction"
	"github.com/Falleiro/Finova/internal/infrastructure/memory"
	"github.com/Falleiro/Finova/internal/infrastructure/postgres"
	"github.com/Falleiro/Finova/internal/infrastructure/rabbitmq"
	"github.com/Falleiro/Finova/internal/infrastructure/telegram"
	"github.com/Falleiro/Finova/internal/openfinance"
	"github.com/Falleiro/Finova/internal/report"
	"github.com/Falleiro/Finova/internal/scheduler"
	"github.com/Falleiro/Finova/internal/telemetry"
	"github.com/Falleiro/Finova/internal/watcher"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

type repositories struct {
	accounts      account.Repository
	transactions  transaction.Repository
	investments   investment.Repository
	notifications notification.Repository
}

func run() error {
	// A missing .env is fine; the environment may carry everything.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Printf("Telemetry shutdown error: %v", err)
			}
		}()
	}

	repos, cleanup, err := buildRepositories(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Alert flags persisted by a previous run are stale by now; clear them so
	// the first poll works from fresh snapshots only.
	if err := repos.investments.ClearTriggeredAlerts(ctx); err != nil {
		log.Printf("Failed to clear stale investment alerts: %v", err)
	}

	messenger, messengerCleanup, err := buildMessenger(cfg)
	if err != nil {
		return err
	}
	defer messengerCleanup()

	api := openfinance.NewClient(openfinance.Config{
		BaseURL:           cfg.OpenFinance.BaseURL,
		ClientID:          cfg.OpenFinance.ClientID,
		ClientSecret:      cfg.OpenFinance.ClientSecret,
		ItemID:            cfg.OpenFinance.ItemID,
		AlertThresholdPct: cfg.Alerts.InvestmentSwingPct,
	})

	transactionWatcher := watcher.NewTransactionWatcher(watcher.TransactionWatcherConfig{
		API:            api,
		Accounts:       repos.accounts,
		Transactions:   repos.transactions,
		Notifications:  repos.notifications,
		Messenger:      messenger,
		Destination:    cfg.Telegram.ChatID,
		ThresholdCents: cfg.Alerts.LargeTransactionCents,
		Interval:       cfg.Watcher.PollInterval,
	})

	investmentWatcher := watcher.NewInvestmentWatcher(watcher.InvestmentWatcherConfig{
		API:           api,
		Investments:   repos.investments,
		Notifications: repos.notifications,
		Messenger:     messenger,
		Destination:   cfg.Telegram.ChatID,
		Interval:      cfg.Watcher.PollInterval,
	})

	if cfg.Reports.Enabled {
		location, err := time.LoadLocation(cfg.Reports.Timezone)
		if err != nil {
			return err
		}
		sched, err := scheduler.New(scheduler.Config{
			Reporter:      report.NewReporter(api, repos.accounts, repos.transactions),
			Notifications: repos.notifications,
			Messenger:     messenger,
			Destination:   cfg.Telegram.ChatID,
			DailyTime:     cfg.Reports.DailyTime,
			Location:      location,
		})
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	} else {
		log.Println("Scheduled reports are disabled")
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return transactionWatcher.Run(groupCtx) })
	group.Go(func() error { return investmentWatcher.Run(groupCtx) })

	log.Printf("Finova started, polling every %v", cfg.Watcher.PollInterval)

	if err := group.Wait(); err != nil {
		return err
	}
	log.Println("Finova stopped")
	return nil
}

// buildRepositories selects the persistence backend: postgres when a
// DATABASE_URL is configured, the in-memory store otherwise.
func buildRepositories(cfg *config.Config) (repositories, func(), error) {
	if cfg.Database.URL == "" {
		log.Println("No DATABASE_URL configured, using the in-memory store")
		store := memory.NewStore()
		return repositories{
			accounts:      store.Accounts(),
			transactions:  store.Transactions(),
			investments:   store.Investments(),
			notifications: store.Notifications(),
		}, func() {}, nil
	}

	db, err := postgres.New(cfg.Database.URL)
	if err != nil {
		return repositories{}, nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return repositories{}, nil, err
	}
	log.Println("Connected to database")

	return repositories{
		accounts:      postgres.NewAccountRepository(db),
		transactions:  postgres.NewTransactionRepository(db),
		investments:   postgres.NewInvestmentRepository(db),
		notifications: postgres.NewNotificationRepository(db),
	}, func() { db.Close() }, nil
}

// buildMessenger assembles the delivery fan-out from what is configured:
// Telegram for the chat channel, RabbitMQ for downstream consumers. With
// neither configured alerts go to the process log only.
func buildMessenger(cfg *config.Config) (notification.Messenger, func(), error) {
	var fanout notification.Fanout
	cleanup := func() {}

	if cfg.Telegram.BotToken != "" {
		tg, err := telegram.NewMessenger(cfg.Telegram.BotToken)
		if err != nil {
			return nil, nil, err
		}
		fanout = append(fanout, tg)
		log.Println("Telegram delivery enabled")
	}

	if cfg.RabbitMQ.URL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return nil, nil, err
		}
		fanout = append(fanout, publisher)
		cleanup = func() {
			if err := publisher.Close(); err != nil {
				log.Printf("Failed to close rabbitmq publisher: %v", err)
			}
		}
		log.Printf("RabbitMQ delivery enabled (exchange %s)", cfg.RabbitMQ.Exchange)
	}

	if len(fanout) == 0 {
		log.Println("No delivery channel configured, alerts will only be logged")
		return logMessenger{}, cleanup, nil
	}
	return fanout, cleanup, nil
}

// logMessenger is the development fallback delivery channel.
type logMessenger struct{}

func (logMessenger) Send(_ context.Context, destination, text string) error {
	log.Printf("Notification for %q:\n%s", destination, text)
	return nil
}

func (logMessenger) SendPhoto(_ context.Context, destination, imagePath, caption string) error {
	log.Printf("Notification for %q (image %s):\n%s", destination, imagePath, caption)
	return nil
}

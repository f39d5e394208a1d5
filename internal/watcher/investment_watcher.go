package watcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Falleiro/Finova/internal/domain/investment"
	"github.com/Falleiro/Finova/internal/domain/notification"
	"github.com/Falleiro/Finova/internal/openfinance"
	"github.com/Falleiro/Finova/internal/report"
)

const investmentWatcherName = "investments"

// InvestmentWatcherConfig wires the investment poll loop.
type InvestmentWatcherConfig struct {
	API           openfinance.API
	Investments   investment.Repository
	Notifications notification.Repository
	Messenger     notification.Messenger
	Destination   string
	Interval      time.Duration
}

// InvestmentWatcher polls the portfolio and alerts on positions whose daily
// swing crossed the threshold. The alert flag is level-derived upstream and
// cleared here after delivery, so each poll's snapshot alerts at most once
// even though the flag is recomputed every cycle.
type InvestmentWatcher struct {
	*Watcher
	cfg InvestmentWatcherConfig
}

func NewInvestmentWatcher(cfg InvestmentWatcherConfig) *InvestmentWatcher {
	iw := &InvestmentWatcher{cfg: cfg}
	iw.Watcher = New(investmentWatcherName, cfg.Interval, iw.poll)
	return iw
}

func (iw *InvestmentWatcher) poll(ctx context.Context) error {
	fetched, err := iw.cfg.API.FetchInvestments(ctx)
	if err != nil {
		return fmt.Errorf("investment sync: %w", err)
	}

	for _, inv := range fetched {
		stored, err := iw.cfg.Investments.Upsert(ctx, inv)
		if err != nil {
			log.Printf("Watcher %s: Failed to upsert investment %s: %v", investmentWatcherName, inv.AssetID, err)
			continue
		}
		recordsIngested.Add(ctx, 1, metric.WithAttributes(attribute.String("watcher", investmentWatcherName)))

		if stored.AlertTriggered {
			iw.alert(ctx, stored)
		}
	}
	return nil
}

// alert delivers the swing notification, then clears the flag regardless of
// delivery outcome. Clearing on failure trades a lost alert for never
// spamming the same swing every poll cycle.
func (iw *InvestmentWatcher) alert(ctx context.Context, inv *investment.Investment) {
	body := report.InvestmentAlertMessage(inv)
	delivered := true
	if err := iw.cfg.Messenger.Send(ctx, iw.cfg.Destination, body); err != nil {
		delivered = false
		log.Printf("Watcher %s: Failed to deliver alert for asset %s: %v", investmentWatcherName, inv.AssetID, err)
	} else {
		alertsFired.Add(ctx, 1, metric.WithAttributes(attribute.String("watcher", investmentWatcherName)))
	}

	if err := iw.cfg.Investments.ClearAlert(ctx, inv.AssetID); err != nil {
		log.Printf("Watcher %s: Failed to clear alert for asset %s: %v", investmentWatcherName, inv.AssetID, err)
	}

	record := notification.New(notification.KindInvestmentSwing, inv.AssetID, body, delivered)
	if err := iw.cfg.Notifications.Record(ctx, record); err != nil {
		log.Printf("Watcher %s: Failed to record notification: %v", investmentWatcherName, err)
	}
}

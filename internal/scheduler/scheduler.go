// Package scheduler runs the timed report jobs: a daily digest and a monthly
// report on the first day of each month.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Falleiro/Finova/internal/domain/notification"
	"github.com/Falleiro/Finova/internal/report"
)

// Config wires the report scheduler.
type Config struct {
	Reporter      *report.Reporter
	Notifications notification.Repository
	Messenger     notification.Messenger
	Destination   string

	// DailyTime is the local time of day for the daily digest, HH:MM. The
	// monthly report runs at the same time on the first of the month.
	DailyTime string
	Location  *time.Location
}

type Scheduler struct {
	cron *cron.Cron
	cfg  Config
}

// New builds the scheduler without starting it.
func New(cfg Config) (*Scheduler, error) {
	hour, minute, err := parseDailyTime(cfg.DailyTime)
	if err != nil {
		return nil, err
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	c := cron.New(
		cron.WithLocation(location),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)

	s := &Scheduler{cron: c, cfg: cfg}

	dailySpec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := c.AddFunc(dailySpec, s.runDaily); err != nil {
		return nil, fmt.Errorf("failed to schedule daily report: %w", err)
	}

	monthlySpec := fmt.Sprintf("%d %d 1 * *", minute, hour)
	if _, err := c.AddFunc(monthlySpec, s.runMonthly); err != nil {
		return nil, fmt.Errorf("failed to schedule monthly report: %w", err)
	}

	log.Printf("Scheduler: Daily report at %02d:%02d, monthly on day 1 (%s)", hour, minute, location)
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	body, err := s.cfg.Reporter.Daily(ctx, time.Now())
	if err != nil {
		log.Printf("Scheduler: Daily report failed: %v", err)
		return
	}
	s.deliver(ctx, notification.KindDailySummary, body)
}

func (s *Scheduler) runMonthly() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	body, err := s.cfg.Reporter.Monthly(ctx, time.Now())
	if err != nil {
		log.Printf("Scheduler: Monthly report failed: %v", err)
		return
	}
	s.deliver(ctx, notification.KindMonthlyReport, body)
}

func (s *Scheduler) deliver(ctx context.Context, kind notification.Kind, body string) {
	delivered := true
	if err := s.cfg.Messenger.Send(ctx, s.cfg.Destination, body); err != nil {
		delivered = false
		log.Printf("Scheduler: Failed to deliver %s: %v", kind, err)
	}

	record := notification.New(kind, "", body, delivered)
	if err := s.cfg.Notifications.Record(ctx, record); err != nil {
		log.Printf("Scheduler: Failed to record %s notification: %v", kind, err)
	}
}

func parseDailyTime(s string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid report time %q (expected HH:MM): %w", s, err)
	}
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid report hour: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid report minute: %d", minute)
	}
	return hour, minute, nil
}

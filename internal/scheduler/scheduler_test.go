package scheduler

import (
	"testing"
	"time"

	"github.com/Falleiro/Finova/internal/infrastructure/memory"
	"github.com/Falleiro/Finova/internal/report"
)

func TestParseDailyTime(t *testing.T) {
	tests := []struct {
		in           string
		hour, minute int
		wantErr      bool
	}{
		{"08:00", 8, 0, false},
		{"23:59", 23, 59, false},
		{"0:5", 0, 5, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"noon", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tc := range tests {
		hour, minute, err := parseDailyTime(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseDailyTime(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDailyTime(%q): %v", tc.in, err)
			continue
		}
		if hour != tc.hour || minute != tc.minute {
			t.Errorf("parseDailyTime(%q) = %d:%d, want %d:%d", tc.in, hour, minute, tc.hour, tc.minute)
		}
	}
}

func TestNew_RejectsInvalidTime(t *testing.T) {
	store := memory.NewStore()
	_, err := New(Config{
		Reporter:      report.NewReporter(nil, store.Accounts(), store.Transactions()),
		Notifications: store.Notifications(),
		DailyTime:     "25:00",
		Location:      time.UTC,
	})
	if err == nil {
		t.Fatal("expected an error for an out-of-range report time")
	}
}

func TestNew_SchedulesBothJobs(t *testing.T) {
	store := memory.NewStore()
	s, err := New(Config{
		Reporter:      report.NewReporter(nil, store.Accounts(), store.Transactions()),
		Notifications: store.Notifications(),
		DailyTime:     "08:00",
		Location:      time.UTC,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := len(s.cron.Entries()); got != 2 {
		t.Fatalf("scheduled %d jobs, want 2 (daily and monthly)", got)
	}
}

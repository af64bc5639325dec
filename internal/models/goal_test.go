package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dateAt(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGoal_ProgressPercentage(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		target  int64
		want    float64
	}{
		{name: "half way", current: 50, target: 100, want: 50},
		{name: "over target clamps", current: 150, target: 100, want: 100},
		{name: "zero target", current: 10, target: 0, want: 0},
		{name: "nothing yet", current: 0, target: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Goal{CurrentValue: dec(tt.current), TargetValue: dec(tt.target)}
			if got := g.ProgressPercentage(); got != tt.want {
				t.Errorf("ProgressPercentage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoal_StatusAndDates(t *testing.T) {
	today := dateAt(2026, 10, 14)
	past := dateAt(2026, 10, 1)
	soon := dateAt(2026, 10, 20)
	later := dateAt(2026, 12, 1)

	tests := []struct {
		name          string
		goal          Goal
		wantStatus    string
		wantOverdue   bool
		wantRemaining int
	}{
		{
			name:       "completed beats overdue",
			goal:       Goal{CurrentValue: dec(10), TargetValue: dec(10), TargetDate: &past},
			wantStatus: GoalStatusCompleted,
		},
		{
			name:        "overdue",
			goal:        Goal{CurrentValue: dec(1), TargetValue: dec(10), TargetDate: &past},
			wantStatus:  GoalStatusOverdue,
			wantOverdue: true,
		},
		{
			name:          "due soon",
			goal:          Goal{CurrentValue: dec(1), TargetValue: dec(10), TargetDate: &soon},
			wantStatus:    GoalStatusDueSoon,
			wantRemaining: 6,
		},
		{
			name:          "in progress",
			goal:          Goal{CurrentValue: dec(1), TargetValue: dec(10), TargetDate: &later},
			wantStatus:    GoalStatusInProgress,
			wantRemaining: 48,
		},
		{
			name:       "no target date",
			goal:       Goal{CurrentValue: dec(1), TargetValue: dec(10)},
			wantStatus: GoalStatusInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.goal.Status(today); got != tt.wantStatus {
				t.Errorf("Status() = %q, want %q", got, tt.wantStatus)
			}
			if got := tt.goal.IsOverdue(today); got != tt.wantOverdue {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.wantOverdue)
			}
			if got := tt.goal.DaysRemaining(today); got != tt.wantRemaining {
				t.Errorf("DaysRemaining() = %d, want %d", got, tt.wantRemaining)
			}
		})
	}
}

func TestGoal_ApplyTotal(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	g := &Goal{TargetValue: dec(100)}

	g.ApplyTotal(dec(105), now)
	if !g.IsCompleted() || g.CompletedAt == nil || !g.CompletedAt.Equal(now) {
		t.Fatalf("after reaching target: completed=%v completedAt=%v", g.IsCompleted(), g.CompletedAt)
	}

	// A later total above target keeps the first stamp.
	g.ApplyTotal(dec(120), now.Add(time.Hour))
	if !g.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt moved to %v, want %v", g.CompletedAt, now)
	}

	g.ApplyTotal(dec(70), now)
	if g.IsCompleted() || g.CompletedAt != nil {
		t.Errorf("below target: completed=%v completedAt=%v, want cleared", g.IsCompleted(), g.CompletedAt)
	}

	g.ApplyTotal(dec(-5), now)
	if !g.CurrentValue.Equal(decimal.Zero) {
		t.Errorf("CurrentValue = %s, want 0", g.CurrentValue)
	}
}

func TestGoalCategory_Display(t *testing.T) {
	if got := GoalCategoryRelationship.Display(); got != "Relationship" {
		t.Errorf("Display() = %q, want Relationship", got)
	}
	if got := GoalCategory("bogus").Display(); got != "Other" {
		t.Errorf("Display(unknown) = %q, want Other", got)
	}
}

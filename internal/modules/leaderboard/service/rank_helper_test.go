package service

import "testing"

func TestGetGamificationStatusWithWeekly(t *testing.T) {
	tests := []struct {
		points   int
		weekly   int
		rank     string
		next     string
		progress float64
		label    string
	}{
		{0, 0, "Newcomer", "Charter", 0, ""},
		{10, 20, "Newcomer", "Charter", 33.33, "📈 Active"},
		{30, 50, "Charter", "Regular", 20, "⚡ Trending"},
		{150, 100, "Regular", "Veteran", 30, "🔥 On Fire!"},
		{600, 0, "Veteran", "Virtuoso", 50, ""},
		{1200, 0, "Virtuoso", "Legend", 48, ""},
		{9000, 0, "Legend", rankMaxLevelTag, 100, ""},
	}
	for _, tt := range tests {
		got := GetGamificationStatusWithWeekly(tt.points, tt.weekly)
		if got.RankName != tt.rank || got.NextRank != tt.next {
			t.Fatalf("%d points: expected %s -> %s, got %s -> %s", tt.points, tt.rank, tt.next, got.RankName, got.NextRank)
		}
		if got.Progress != tt.progress {
			t.Fatalf("%d points: expected progress %v, got %v", tt.points, tt.progress, got.Progress)
		}
		if got.WeeklyLabel != tt.label {
			t.Fatalf("%d weekly: expected label %q, got %q", tt.weekly, tt.label, got.WeeklyLabel)
		}
	}
}

func TestGetGamificationStatus_NoWeekly(t *testing.T) {
	got := GetGamificationStatus(500)
	if got.WeeklyPoints != 0 || got.WeeklyLabel != "" || got.RankName != "Veteran" {
		t.Fatalf("unexpected status: %+v", got)
	}
}

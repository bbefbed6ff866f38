package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/trackforge/internal/testutil"
)

type fakeAgent struct {
	name     string
	schedule string
	err      error
	runs     int
}

func (a *fakeAgent) GetName() string     { return a.name }
func (a *fakeAgent) GetSchedule() string { return a.schedule }
func (a *fakeAgent) Execute(ctx context.Context) error {
	a.runs++
	return a.err
}

func TestScheduler_RegisterAndRunByName(t *testing.T) {
	s := NewScheduler(testutil.Logger(t))

	scheduled := &fakeAgent{name: "scheduled", schedule: "@every 1h"}
	manual := &fakeAgent{name: "manual", err: errors.New("boom")}
	if err := s.RegisterAgent(scheduled); err != nil {
		t.Fatalf("register scheduled: %v", err)
	}
	if err := s.RegisterAgent(manual); err != nil {
		t.Fatalf("register manual: %v", err)
	}

	names := s.GetRegisteredAgents()
	if len(names) != 2 || names[0] != "scheduled" || names[1] != "manual" {
		t.Fatalf("unexpected agents: %v", names)
	}

	if err := s.RunAgentByName(context.Background(), "scheduled"); err != nil {
		t.Fatalf("run scheduled: %v", err)
	}
	if scheduled.runs != 1 {
		t.Fatalf("expected 1 run, got %d", scheduled.runs)
	}
	if err := s.RunAgentByName(context.Background(), "manual"); err == nil {
		t.Fatalf("expected agent error to surface")
	}
	if err := s.RunAgentByName(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for unknown agent")
	}
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	s := NewScheduler(testutil.Logger(t))
	if err := s.RegisterAgent(&fakeAgent{name: "bad", schedule: "every now and then"}); err == nil {
		t.Fatalf("expected invalid cron spec to be rejected")
	}
	if len(s.GetRegisteredAgents()) != 0 {
		t.Fatalf("rejected agent should not be registered")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(testutil.Logger(t))
	if err := s.RegisterAgent(&fakeAgent{name: "tick", schedule: "@every 1h"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

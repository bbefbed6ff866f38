package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/trackforge/internal/testutil"
)

type fakeRepairer struct {
	drifted     int
	err         error
	hadDeadline bool
}

func (f *fakeRepairer) RepairAll(ctx context.Context) (int, error) {
	_, f.hadDeadline = ctx.Deadline()
	return f.drifted, f.err
}

func TestLedgerRepairAgent_Execute(t *testing.T) {
	repairer := &fakeRepairer{drifted: 3}
	a := NewLedgerRepairAgent(repairer, "@every 1h", time.Minute, testutil.Logger(t))

	if a.GetName() != LedgerRepairAgentName || a.GetSchedule() != "@every 1h" {
		t.Fatalf("unexpected agent identity: %s %s", a.GetName(), a.GetSchedule())
	}
	if err := a.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !repairer.hadDeadline {
		t.Fatalf("expected the sweep to run under a deadline")
	}
}

func TestLedgerRepairAgent_PropagatesError(t *testing.T) {
	sentinel := errors.New("db down")
	a := NewLedgerRepairAgent(&fakeRepairer{err: sentinel}, "", 0, testutil.Logger(t))

	err := a.Execute(context.Background())
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

package agents

import (
	"context"
	"fmt"
	"time"

	"anoa.com/trackforge/pkg/logger"
)

const LedgerRepairAgentName = "ledger_repair"

// PointsRepairer rebuilds cached point totals from awarded achievements and
// reports how many users had drifted.
type PointsRepairer interface {
	RepairAll(ctx context.Context) (int, error)
}

// LedgerRepairAgent periodically reconciles user_stats.total_points with the
// sum of awarded achievement points.
type LedgerRepairAgent struct {
	repairer PointsRepairer
	schedule string
	timeout  time.Duration
	log      *logger.Logger
}

func NewLedgerRepairAgent(repairer PointsRepairer, schedule string, timeout time.Duration, log *logger.Logger) *LedgerRepairAgent {
	return &LedgerRepairAgent{
		repairer: repairer,
		schedule: schedule,
		timeout:  timeout,
		log:      log,
	}
}

func (a *LedgerRepairAgent) GetName() string {
	return LedgerRepairAgentName
}

func (a *LedgerRepairAgent) GetSchedule() string {
	return a.schedule
}

func (a *LedgerRepairAgent) Execute(ctx context.Context) error {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	drifted, err := a.repairer.RepairAll(ctx)
	if err != nil {
		return fmt.Errorf("repair ledgers: %w", err)
	}
	a.log.Info("ledger repair finished", "drifted", drifted, "took", time.Since(start))
	return nil
}

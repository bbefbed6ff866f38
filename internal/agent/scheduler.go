package agent

import (
	"context"
	"fmt"

	"anoa.com/trackforge/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler owns the cron runner and every registered agent.
type Scheduler struct {
	cron   *cron.Cron
	agents []Agent
	log    *logger.Logger
}

func NewScheduler(log *logger.Logger) *Scheduler {
	return &Scheduler{
		// SkipIfStillRunning keeps a slow run from overlapping the next tick.
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		agents: make([]Agent, 0),
		log:    log,
	}
}

// RegisterAgent adds the agent and schedules it when it has a schedule.
func (s *Scheduler) RegisterAgent(agent Agent) error {
	schedule := agent.GetSchedule()
	if schedule != "" {
		_, err := s.cron.AddFunc(schedule, func() {
			s.run(context.Background(), agent)
		})
		if err != nil {
			return fmt.Errorf("schedule agent %s: %w", agent.GetName(), err)
		}
		s.log.Info("agent scheduled", "agent", agent.GetName(), "schedule", schedule)
	} else {
		s.log.Info("agent registered on demand", "agent", agent.GetName())
	}

	s.agents = append(s.agents, agent)
	return nil
}

func (s *Scheduler) run(ctx context.Context, agent Agent) {
	s.log.Info("agent job starting", "agent", agent.GetName())
	if err := agent.Execute(ctx); err != nil {
		s.log.Error("agent job failed", "agent", agent.GetName(), "error", err)
		return
	}
	s.log.Info("agent job completed", "agent", agent.GetName())
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("agent scheduler started", "agents", len(s.agents))
}

// Stop halts scheduling and waits for running jobs or ctx, whichever ends
// first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.log.Info("agent scheduler stopped")
}

// RunAgentByName executes a registered agent immediately.
func (s *Scheduler) RunAgentByName(ctx context.Context, name string) error {
	for _, agent := range s.agents {
		if agent.GetName() == name {
			return agent.Execute(ctx)
		}
	}
	return fmt.Errorf("agent %q not registered", name)
}

func (s *Scheduler) GetRegisteredAgents() []string {
	names := make([]string, len(s.agents))
	for i, agent := range s.agents {
		names[i] = agent.GetName()
	}
	return names
}

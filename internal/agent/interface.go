package agent

import "context"

// Agent is a background job the scheduler can run on a cron schedule or on
// demand.
type Agent interface {
	// GetName returns a unique name used for logging and manual runs.
	GetName() string

	// GetSchedule returns a cron spec such as "@every 1h" or "0 3 * * *".
	// An empty schedule registers the agent as on-demand only.
	GetSchedule() string

	Execute(ctx context.Context) error
}

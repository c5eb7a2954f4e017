package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addSidekiqPatterns) }

func addSidekiqPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "sidekiq_job_retries_exhausted", Source: `(retries exhausted|all retries exhausted|job dead)`,
			Component: model.ComponentSidekiq, Category: "jobs", Severity: model.SeverityError,
			Priority: 6, Description: "A Sidekiq job exhausted its retry budget and moved to the dead set",
		},
		{
			ID: "sidekiq_job_failed", Source: `"retry_count"\s*:\s*\d+.{0,80}"error_message"`,
			Component: model.ComponentSidekiq, Category: "jobs", Severity: model.SeverityError,
			Priority: 6, Multiline: true, Description: "Sidekiq job raised an exception and will be retried",
		},
		{
			ID: "sidekiq_queue_backlog", Source: `queue (size|latency).{0,20}(critical|exceeded|too (high|large))`,
			Component: model.ComponentSidekiq, Category: "performance", Severity: model.SeverityWarning,
			Priority: 4, Description: "Sidekiq queue backlog growing beyond expected thresholds",
		},
		{
			ID: "sidekiq_worker_died", Source: `sidekiq.{0,20}(process|worker).{0,20}(died|orphaned|heartbeat missed)`,
			Component: model.ComponentSidekiq, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 8, Description: "A Sidekiq worker process stopped sending heartbeats",
		},
		{
			ID: "sidekiq_redis_conn_lost", Source: `sidekiq.{0,40}redis.{0,20}(connection (lost|reset)|econnrefused)`,
			Component: model.ComponentSidekiq, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 8, Description: "Sidekiq lost its Redis connection",
		},
		{
			ID: "sidekiq_job_timeout", Source: `job.{0,20}(exceeded|timed out).{0,20}(timeout|deadline)`,
			Component: model.ComponentSidekiq, Category: "jobs", Severity: model.SeverityWarning,
			Priority: 4, Description: "A Sidekiq job exceeded its execution timeout",
		},
		{
			ID: "sidekiq_memory_killer", Source: `sidekiq.{0,20}memory killer.{0,20}(triggered|restarting)`,
			Component: model.ComponentSidekiq, Category: "infrastructure", Severity: model.SeverityWarning,
			Priority: 5, Description: "Sidekiq's memory killer restarted a worker process",
		},
		{
			ID: "sidekiq_throttle_exceeded", Source: `concurrency limit.{0,20}(exceeded|reached)`,
			Component: model.ComponentSidekiq, Category: "performance", Severity: model.SeverityWarning,
			Priority: 3, Description: "Sidekiq job concurrency/throttle limit exceeded",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

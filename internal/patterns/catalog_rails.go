package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addRailsPatterns) }

func addRailsPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "rails_500", Source: `completed 5\d{2}`,
			Component: model.ComponentRails, Category: "application", Severity: model.SeverityError,
			Priority: 6, Description: "Rails request completed with a 5xx status",
		},
		{
			ID: "rails_unhandled_exception", Source: `actioncontroller::routingerror|activerecord::recordnotfound|nomethoderror|undefined method`,
			Component: model.ComponentRails, Category: "application", Severity: model.SeverityError,
			Priority: 6, Multiline: true, Description: "Rails raised an unhandled application exception",
		},
		{
			ID: "rails_db_pool_timeout", Source: `could not obtain a (database )?connection.{0,30}within`,
			Component: model.ComponentRails, Category: "database", Severity: model.SeverityCritical,
			Priority: 8, Description: "Rails ActiveRecord connection pool exhausted",
		},
		{
			ID: "rails_csrf_failure", Source: `can't verify csrf token authenticity`,
			Component: model.ComponentRails, Category: "security", Severity: model.SeverityWarning,
			Priority: 3, Description: "Rails rejected a request for an invalid CSRF token",
		},
		{
			ID: "rails_memory_exceeded", Source: `(puma|unicorn).{0,30}(worker|process).{0,20}(killed|oom|out of memory)`,
			Component: model.ComponentRails, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 9, Description: "A Rails application server worker was killed for excessive memory use",
		},
		{
			ID: "rails_request_timeout", Source: `rack::timeout|request ?timeout`,
			Component: model.ComponentRails, Category: "performance", Severity: model.SeverityWarning,
			Priority: 4, Description: "Rails request exceeded the configured timeout",
		},
		{
			ID: "rails_migration_failed", Source: `migration.{0,20}(failed|error)`,
			Component: model.ComponentRails, Category: "database", Severity: model.SeverityCritical,
			Priority: 8, Description: "A Rails/ActiveRecord schema migration failed",
		},
		{
			ID: "puma_worker_boot_failure", Source: `error in worker.{0,20}(process|boot)`,
			Component: model.ComponentRails, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 8, Description: "A Puma worker process failed to boot",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

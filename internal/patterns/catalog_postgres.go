package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addPostgresPatterns) }

func addPostgresPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "pg_conn_refused", Source: `fatal:.{0,60}connection refused`,
			Component: model.ComponentPostgreSQL, Category: "database", Severity: model.SeverityError,
			Priority: 8, Description: "PostgreSQL refused a connection",
		},
		{
			ID: "pg_too_many_connections", Source: `(too many (clients|connections)|remaining connection slots are reserved)`,
			Component: model.ComponentPostgreSQL, Category: "database", Severity: model.SeverityCritical,
			Priority: 9, Description: "PostgreSQL connection pool exhausted",
		},
		{
			ID: "pg_deadlock", Source: `deadlock detected`,
			Component: model.ComponentPostgreSQL, Category: "database", Severity: model.SeverityError,
			Priority: 7, Description: "PostgreSQL detected and resolved a deadlock",
		},
		{
			ID: "pg_disk_full", Source: `(could not write to (file|temporary file)|no space left on device)`,
			Component: model.ComponentPostgreSQL, Category: "storage", Severity: model.SeverityCritical,
			Priority: 10, Description: "PostgreSQL ran out of disk space",
		},
		{
			ID: "pg_checkpoint_slow", Source: `checkpoints are occurring too frequently`,
			Component: model.ComponentPostgreSQL, Category: "performance", Severity: model.SeverityWarning,
			Priority: 4, Description: "PostgreSQL checkpoints are too frequent; consider tuning WAL settings",
		},
		{
			ID: "pg_wraparound", Source: `database.{0,20}must be vacuumed within`,
			Component: model.ComponentPostgreSQL, Category: "database", Severity: model.SeverityCritical,
			Priority: 10, Description: "PostgreSQL approaching transaction ID wraparound",
		},
		{
			ID: "pg_replication_lost", Source: `(terminating walsender process|replication slot.{0,20}(removed|invalidated))`,
			Component: model.ComponentPostgreSQL, Category: "replication", Severity: model.SeverityError,
			Priority: 7, Description: "PostgreSQL lost or invalidated a replication connection",
		},
		{
			ID: "pg_oom_killed", Source: `terminating connection because of crash of another server process`,
			Component: model.ComponentPostgreSQL, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 9, Description: "PostgreSQL backend crashed and took the cluster down with it",
		},
		{
			ID: "pg_unique_violation", Source: `duplicate key value violates unique constraint`,
			Component: model.ComponentPostgreSQL, Category: "database", Severity: model.SeverityWarning,
			Priority: 3, Description: "PostgreSQL rejected an insert/update on a unique constraint",
		},
		{
			ID: "pg_fk_violation", Source: `violates foreign key constraint`,
			Component: model.ComponentPostgreSQL, Category: "database", Severity: model.SeverityWarning,
			Priority: 3, Description: "PostgreSQL rejected a row violating a foreign key",
		},
		{
			ID: "pg_statement_timeout", Source: `canceling statement due to statement timeout`,
			Component: model.ComponentPostgreSQL, Category: "performance", Severity: model.SeverityWarning,
			Priority: 4, Description: "PostgreSQL canceled a query after statement_timeout",
		},
		{
			ID: "pg_serialize_failure", Source: `could not serialize access due to concurrent update`,
			Component: model.ComponentPostgreSQL, Category: "database", Severity: model.SeverityWarning,
			Priority: 3, Description: "PostgreSQL serializable transaction conflict",
		},
		{
			ID: "pgbouncer_pool_exhausted", Source: `(no more connections allowed|pool is full|server login has been failing)`,
			Component: model.ComponentPostgreSQL, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 6, Description: "PgBouncer connection pool exhausted or failing logins",
		},
		{
			ID: "pg_syntax_error", Source: `syntax error at or near`,
			Component: model.ComponentPostgreSQL, Category: "database", Severity: model.SeverityWarning,
			Priority: 2, Description: "PostgreSQL rejected a statement with a syntax error",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

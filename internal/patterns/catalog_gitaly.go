package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addGitalyPatterns) }

func addGitalyPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "gitaly_conn_refused", Source: `dialing.{0,40}(failed|error).{0,80}connection refused`,
			Component: model.ComponentGitaly, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 8, Description: "Praefect/Gitaly gRPC dial failed: connection refused",
		},
		{
			ID: "grpc_unavailable", Source: `code\s*=\s*unavailable`,
			Component: model.ComponentGitaly, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 7, Description: "gRPC call failed with Unavailable status",
		},
		{
			ID: "grpc_deadline_exceeded", Source: `code\s*=\s*deadlineexceeded`,
			Component: model.ComponentGitaly, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 6, Description: "gRPC call exceeded its deadline",
		},
		{
			ID: "praefect_no_primary", Source: `no primary[- ]?(gitaly)?\s*(node|storage)\s*(found|available)`,
			Component: model.ComponentGitaly, Category: "replication", Severity: model.SeverityCritical,
			Priority: 10, Description: "Praefect could not find a primary Gitaly node for a virtual storage",
		},
		{
			ID: "praefect_vote_failed", Source: `transaction.{0,30}(vote|voting).{0,30}(failed|aborted)`,
			Component: model.ComponentGitaly, Category: "replication", Severity: model.SeverityError,
			Priority: 7, Description: "Praefect strong-consistency transaction vote failed",
		},
		{
			ID: "praefect_repl_behind", Source: `replication.{0,30}(queue|job).{0,30}(behind|lag|stale)`,
			Component: model.ComponentGitaly, Category: "replication", Severity: model.SeverityWarning,
			Priority: 4, Description: "Praefect replication queue falling behind",
		},
		{
			ID: "gitaly_repo_not_found", Source: `repository (does )?not (exist|found)`,
			Component: model.ComponentGitaly, Category: "storage", Severity: model.SeverityError,
			Priority: 6, Description: "Gitaly could not find the requested repository on disk",
		},
		{
			ID: "gitaly_corrupt_object", Source: `(object|loose object|pack).{0,30}(corrupt|is corrupt|damaged)`,
			Component: model.ComponentGitaly, Category: "storage", Severity: model.SeverityCritical,
			Priority: 9, Description: "Gitaly detected a corrupt git object or pack",
		},
		{
			ID: "gitaly_disk_quota", Source: `(disk quota exceeded|no space left on device)`,
			Component: model.ComponentGitaly, Category: "storage", Severity: model.SeverityCritical,
			Priority: 9, Description: "Gitaly storage ran out of space",
		},
		{
			ID: "gitaly_pack_objects_killed", Source: `pack-objects.{0,40}(killed|cache full|limit exceeded)`,
			Component: model.ComponentGitaly, Category: "performance", Severity: model.SeverityWarning,
			Priority: 5, Description: "Gitaly pack-objects cache rejected or killed a request",
		},
		{
			ID: "gitaly_rpc_concurrency_limit", Source: `maximum concurrency.{0,30}(reached|exceeded)`,
			Component: model.ComponentGitaly, Category: "performance", Severity: model.SeverityWarning,
			Priority: 4, Description: "Gitaly RPC concurrency limiter rejected a request",
		},
		{
			ID: "gitaly_auth_failed", Source: `gitaly.{0,20}authentication (failed|error)`,
			Component: model.ComponentGitaly, Category: "auth", Severity: model.SeverityError,
			Priority: 6, Description: "Gitaly token authentication failed",
		},
		{
			ID: "gitaly_hook_failed", Source: `(pre|post|update)-receive hook.{0,30}(failed|error|exit status)`,
			Component: model.ComponentGitaly, Category: "git", Severity: model.SeverityError,
			Priority: 5, Description: "Gitaly git hook exited with a failure",
		},
		{
			ID: "gitaly_node_unhealthy", Source: `gitaly node.{0,30}(unhealthy|down|unreachable)`,
			Component: model.ComponentGitaly, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 9, Description: "A Gitaly storage node was reported unhealthy",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

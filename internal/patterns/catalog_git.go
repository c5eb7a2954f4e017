package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addGitPatterns) }

func addGitPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "git_repo_corrupt", Source: `(fatal: )?(bad object|loose object.{0,20}corrupt|fsck error)`,
			Component: model.ComponentGitShell, Category: "git", Severity: model.SeverityCritical,
			Priority: 8, Description: "git reported an object or repository corruption",
		},
		{
			ID: "git_pack_failed", Source: `fatal: unable to (create|write) .{0,10}pack`,
			Component: model.ComponentGitShell, Category: "git", Severity: model.SeverityError,
			Priority: 6, Description: "git failed to create or write a pack file",
		},
		{
			ID: "git_shell_command_failed", Source: `gitlab-shell.{0,30}(command failed|error executing)`,
			Component: model.ComponentGitShell, Category: "git", Severity: model.SeverityError,
			Priority: 6, Description: "gitlab-shell failed to execute a git command",
		},
		{
			ID: "git_hook_rejected", Source: `(pre-receive|update|post-receive) hook declined`,
			Component: model.ComponentGitShell, Category: "git", Severity: model.SeverityWarning,
			Priority: 3, Description: "A server-side git hook rejected the push",
		},
		{
			ID: "git_lock_contention", Source: `fatal: unable to create .{0,15}\.lock.{0,15}: file exists`,
			Component: model.ComponentGitShell, Category: "git", Severity: model.SeverityWarning,
			Priority: 4, Description: "git could not acquire a ref lock because one already exists",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

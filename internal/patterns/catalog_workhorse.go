package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addWorkhorsePatterns) }

func addWorkhorsePatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "workhorse_upstream_error", Source: `error proxying request to upstream`,
			Component: model.ComponentWorkhorse, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 6, Description: "Workhorse failed to proxy a request to Rails",
		},
		{
			ID: "workhorse_upload_failed", Source: `(object storage|upload).{0,20}(failed|error)`,
			Component: model.ComponentWorkhorse, Category: "storage", Severity: model.SeverityError,
			Priority: 6, Description: "Workhorse failed an accelerated upload",
		},
		{
			ID: "workhorse_channel_timeout", Source: `channel.{0,20}(timed out|closed unexpectedly)`,
			Component: model.ComponentWorkhorse, Category: "infrastructure", Severity: model.SeverityWarning,
			Priority: 4, Description: "Workhorse terminal/build-log channel timed out",
		},
		{
			ID: "workhorse_git_http_error", Source: `git http.{0,20}(failed|error)`,
			Component: model.ComponentWorkhorse, Category: "git", Severity: model.SeverityError,
			Priority: 5, Description: "Workhorse failed to service a git-over-HTTP request",
		},
		{
			ID: "workhorse_redis_error", Source: `workhorse.{0,30}redis.{0,20}(error|unavailable)`,
			Component: model.ComponentWorkhorse, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 6, Description: "Workhorse lost its Redis connection",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

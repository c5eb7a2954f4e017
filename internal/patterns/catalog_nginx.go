package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addNginxPatterns) }

func addNginxPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "nginx_upstream_timeout", Source: `upstream timed out`,
			Component: model.ComponentNginx, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 6, Description: "NGINX upstream (Workhorse/Rails) timed out",
		},
		{
			ID: "nginx_502", Source: `\] 502`,
			Component: model.ComponentNginx, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 6, Description: "NGINX returned a 502 Bad Gateway",
		},
		{
			ID: "nginx_upstream_conn_refused", Source: `connect\(\) failed.{0,40}connection refused.{0,20}while connecting to upstream`,
			Component: model.ComponentNginx, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 7, Description: "NGINX could not connect to its upstream",
		},
		{
			ID: "nginx_worker_exited", Source: `worker process.{0,20}exited on signal`,
			Component: model.ComponentNginx, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 8, Description: "An NGINX worker process crashed",
		},
		{
			ID: "nginx_too_many_open_files", Source: `too many open files`,
			Component: model.ComponentNginx, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 8, Description: "NGINX hit the open file descriptor limit",
		},
		{
			ID: "nginx_ssl_handshake_error", Source: `ssl_handshake.{0,20}(failed|error)`,
			Component: model.ComponentNginx, Category: "security", Severity: model.SeverityWarning,
			Priority: 4, Description: "NGINX failed an SSL/TLS handshake",
		},
		{
			ID: "nginx_rate_limited", Source: `limiting requests, excess`,
			Component: model.ComponentNginx, Category: "performance", Severity: model.SeverityWarning,
			Priority: 3, Description: "NGINX rate limiter rejected excess requests",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

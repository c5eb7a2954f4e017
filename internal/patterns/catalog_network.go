package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addNetworkPatterns) }

func addNetworkPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "net_conn_refused", Source: `connection refused`,
			Component: model.ComponentNetwork, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 5, Description: "A TCP connection was actively refused by the peer",
		},
		{
			ID: "net_conn_reset", Source: `connection reset by peer`,
			Component: model.ComponentNetwork, Category: "infrastructure", Severity: model.SeverityWarning,
			Priority: 4, Description: "A TCP connection was reset by the peer",
		},
		{
			ID: "net_no_route", Source: `no route to host`,
			Component: model.ComponentNetwork, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 5, Description: "No network route to the destination host",
		},
		{
			ID: "net_dns_failure", Source: `(could not resolve host|name or service not known|no such host)`,
			Component: model.ComponentNetwork, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 5, Description: "DNS resolution failed",
		},
		{
			ID: "net_timeout", Source: `i/o timeout`,
			Component: model.ComponentNetwork, Category: "infrastructure", Severity: model.SeverityWarning,
			Priority: 3, Description: "A network I/O operation timed out",
		},
		{
			ID: "net_unreachable", Source: `network is unreachable`,
			Component: model.ComponentNetwork, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 5, Description: "The destination network is unreachable",
		},
		{
			ID: "net_broken_pipe", Source: `broken pipe`,
			Component: model.ComponentNetwork, Category: "infrastructure", Severity: model.SeverityWarning,
			Priority: 3, Description: "Write failed because the connection was already closed",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

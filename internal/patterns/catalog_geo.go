package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addGeoPatterns) }

func addGeoPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "geo_repl_failed", Source: `geo.{0,20}(repository|project) sync.{0,20}failed`,
			Component: model.ComponentGeo, Category: "replication", Severity: model.SeverityError,
			Priority: 6, Description: "A Geo secondary failed to sync a repository or project",
		},
		{
			ID: "geo_lag_high", Source: `geo.{0,20}(replication|db) lag`,
			Component: model.ComponentGeo, Category: "replication", Severity: model.SeverityWarning,
			Priority: 4, Description: "Geo replication lag grew beyond the expected threshold",
		},
		{
			ID: "geo_node_unhealthy", Source: `geo node.{0,20}(unhealthy|not found|unreachable)`,
			Component: model.ComponentGeo, Category: "replication", Severity: model.SeverityCritical,
			Priority: 8, Description: "A Geo node is reporting unhealthy or unreachable",
		},
		{
			ID: "geo_checksum_mismatch", Source: `geo.{0,30}checksum mismatch`,
			Component: model.ComponentGeo, Category: "replication", Severity: model.SeverityError,
			Priority: 6, Description: "A Geo repository checksum verification failed",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

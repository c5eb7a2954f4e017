package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addRedisPatterns) }

func addRedisPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "redis_conn_refused", Source: `redis.{0,20}connection refused`,
			Component: model.ComponentRedis, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 8, Description: "A client could not connect to Redis",
		},
		{
			ID: "redis_oom", Source: `oom command not allowed when used memory`,
			Component: model.ComponentRedis, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 9, Description: "Redis rejected a write because maxmemory was reached",
		},
		{
			ID: "redis_readonly_replica", Source: `read only replica`,
			Component: model.ComponentRedis, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 6, Description: "A write was attempted against a read-only Redis replica",
		},
		{
			ID: "redis_bgsave_failed", Source: `background saving.{0,20}(error|terminated)`,
			Component: model.ComponentRedis, Category: "storage", Severity: model.SeverityError,
			Priority: 6, Description: "A Redis background save failed",
		},
		{
			ID: "redis_cluster_down", Source: `clusterdown`,
			Component: model.ComponentRedis, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 9, Description: "A Redis Cluster reports too many unreachable slots to serve requests",
		},
		{
			ID: "redis_sentinel_failover", Source: `sentinel.{0,20}(failover|switch-master)`,
			Component: model.ComponentRedis, Category: "infrastructure", Severity: model.SeverityWarning,
			Priority: 4, Description: "Redis Sentinel initiated a failover",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

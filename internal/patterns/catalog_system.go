package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addSystemPatterns) }

func addSystemPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "sys_oom_killer", Source: `out of memory: killed process`,
			Component: model.ComponentSystem, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 9, Description: "The Linux OOM killer terminated a process",
		},
		{
			ID: "sys_disk_full", Source: `no space left on device`,
			Component: model.ComponentSystem, Category: "storage", Severity: model.SeverityCritical,
			Priority: 9, Description: "A filesystem ran out of free space",
		},
		{
			ID: "sys_fd_exhausted", Source: `too many open files`,
			Component: model.ComponentSystem, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 8, Description: "The process exhausted its file descriptor limit",
		},
		{
			ID: "sys_io_error", Source: `i/o error`,
			Component: model.ComponentSystem, Category: "storage", Severity: model.SeverityError,
			Priority: 6, Description: "A block device reported an I/O error",
		},
		{
			ID: "sys_readonly_fs", Source: `read-only file system`,
			Component: model.ComponentSystem, Category: "storage", Severity: model.SeverityCritical,
			Priority: 8, Description: "A filesystem was remounted read-only, usually after corruption",
		},
		{
			ID: "sys_segfault", Source: `segfault at`,
			Component: model.ComponentSystem, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 9, Description: "A process segfaulted",
		},
		{
			ID: "sys_systemd_failed", Source: `systemd.{0,20}\w+\.service.{0,20}failed`,
			Component: model.ComponentSystem, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 6, Description: "A systemd-managed service unit failed",
		},
		{
			ID: "sys_clock_skew", Source: `clock.{0,20}(skew|jump) detected`,
			Component: model.ComponentSystem, Category: "infrastructure", Severity: model.SeverityWarning,
			Priority: 3, Description: "System clock skew or a sudden clock jump was detected",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

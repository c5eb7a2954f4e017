package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addGenericPatterns) }

// addGenericPatterns covers cross-component failure idioms that show up in
// any component's log and aren't worth duplicating per catalog.
func addGenericPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "generic_panic", Source: `panic:`,
			Component: model.ComponentGeneric, Category: "application", Severity: model.SeverityCritical,
			Priority: 9, Multiline: true, Description: "A Go process panicked",
		},
		{
			ID: "generic_fatal", Source: `\bfatal\b`,
			Component: model.ComponentGeneric, Category: "application", Severity: model.SeverityCritical,
			Priority: 7, Description: "A process logged a fatal-level message",
		},
		{
			ID: "generic_exception_traceback", Source: `traceback \(most recent call last\)`,
			Component: model.ComponentGeneric, Category: "application", Severity: model.SeverityError,
			Priority: 6, Multiline: true, Description: "A Python traceback was logged",
		},
		{
			ID: "generic_uncaught_exception", Source: `uncaught exception`,
			Component: model.ComponentGeneric, Category: "application", Severity: model.SeverityError,
			Priority: 6, Multiline: true, Description: "A process logged an uncaught exception",
		},
		{
			ID: "generic_deprecation_removed", Source: `has been removed and will not work`,
			Component: model.ComponentGeneric, Category: "application", Severity: model.SeverityWarning,
			Priority: 2, Description: "A removed feature or configuration was referenced",
		},
		{
			ID: "generic_config_missing", Source: `(config(uration)? (file|key)|required setting).{0,20}(missing|not found)`,
			Component: model.ComponentGeneric, Category: "configuration", Severity: model.SeverityError,
			Priority: 5, Description: "A required configuration file or key was missing",
		},
		{
			ID: "generic_permission_denied", Source: `permission denied`,
			Component: model.ComponentGeneric, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 5, Description: "An operation failed due to insufficient filesystem or OS permissions",
		},
		{
			ID: "generic_json_error_with_exception", Source: `"(severity|level)"\s*:\s*"(ERROR|error)".{0,200}"exception`,
			Component: model.ComponentGeneric, Category: "application", Severity: model.SeverityError,
			Priority: 4, Description: "A structured log entry reported ERROR severity with an attached exception",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

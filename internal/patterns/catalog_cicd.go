package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addCICDPatterns) }

func addCICDPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "cicd_runner_unreachable", Source: `gitlab-runner.{0,30}(could not connect|failed to establish)`,
			Component: model.ComponentCICD, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 6, Description: "A CI runner could not reach the GitLab instance",
		},
		{
			ID: "cicd_pipeline_failed", Source: `pipeline.{0,20}#\d+.{0,20}failed`,
			Component: model.ComponentCICD, Category: "application", Severity: model.SeverityWarning,
			Priority: 3, Description: "A CI pipeline completed in a failed state",
		},
		{
			ID: "cicd_job_stuck", Source: `job.{0,20}(stuck|timed out waiting for a runner)`,
			Component: model.ComponentCICD, Category: "infrastructure", Severity: model.SeverityWarning,
			Priority: 4, Description: "A CI job could not be picked up by any runner",
		},
		{
			ID: "cicd_runner_registration_failed", Source: `runner registration failed`,
			Component: model.ComponentCICD, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 5, Description: "A CI runner failed to register with the instance",
		},
		{
			ID: "cicd_artifact_upload_failed", Source: `(artifact|cache).{0,20}upload.{0,20}failed`,
			Component: model.ComponentCICD, Category: "storage", Severity: model.SeverityError,
			Priority: 5, Description: "A CI job failed to upload artifacts or cache",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

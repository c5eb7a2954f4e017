package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addKubernetesPatterns) }

func addKubernetesPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "k8s_crash_loop", Source: `crashloopbackoff`,
			Component: model.ComponentKubernetes, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 8, Description: "A pod is stuck in CrashLoopBackOff",
		},
		{
			ID: "k8s_image_pull_error", Source: `(imagepullbackoff|errimagepull)`,
			Component: model.ComponentKubernetes, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 6, Description: "Kubernetes could not pull a container image",
		},
		{
			ID: "k8s_oom_killed", Source: `oomkilled`,
			Component: model.ComponentKubernetes, Category: "infrastructure", Severity: model.SeverityCritical,
			Priority: 9, Description: "A container was terminated by the kubelet for exceeding its memory limit",
		},
		{
			ID: "k8s_pending_unschedulable", Source: `0/\d+ nodes are available`,
			Component: model.ComponentKubernetes, Category: "infrastructure", Severity: model.SeverityError,
			Priority: 6, Description: "A pod could not be scheduled onto any node",
		},
		{
			ID: "k8s_helm_upgrade_failed", Source: `helm (upgrade|install).{0,20}failed`,
			Component: model.ComponentKubernetes, Category: "deployment", Severity: model.SeverityCritical,
			Priority: 8, Description: "A Helm release upgrade or install failed",
		},
		{
			ID: "k8s_liveness_failed", Source: `liveness probe failed`,
			Component: model.ComponentKubernetes, Category: "infrastructure", Severity: model.SeverityWarning,
			Priority: 4, Description: "A container failed its liveness probe",
		},
		{
			ID: "k8s_readiness_failed", Source: `readiness probe failed`,
			Component: model.ComponentKubernetes, Category: "infrastructure", Severity: model.SeverityWarning,
			Priority: 3, Description: "A container failed its readiness probe",
		},
		{
			ID: "k8s_pvc_pending", Source: `persistentvolumeclaim.{0,30}pending`,
			Component: model.ComponentKubernetes, Category: "storage", Severity: model.SeverityWarning,
			Priority: 4, Description: "A PersistentVolumeClaim is stuck pending",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}

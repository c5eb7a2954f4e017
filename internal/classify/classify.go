// Package classify assigns a model.FileClassification to every file
// discovered by the archive extractor, deciding which ones the scanner
// bothers to open at all.
package classify

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/weaponry/autogrep/internal/model"
)

var (
	schemaRE     = regexp.MustCompile(`(?i)^schema\.rb$|^structure\.sql$|schema_dump`)
	systemInfoRE = regexp.MustCompile(`(?i)^(top|df|iostat|sar|ps|netstat|ss|vmstat|free)([_.]|$)`)
	configRE     = regexp.MustCompile(`(?i)\.(conf|ya?ml|ini)$`)
	monitoringRE = regexp.MustCompile(`(?i)(prometheus|grafana|metrics)[_/]`)
	kubeRE       = regexp.MustCompile(`(?i)(^|/)(kube|k8s)[-_/].*\.(log|json|yaml|ya?ml)$`)
	logSuitableRE = regexp.MustCompile(`(?i)\.(log|json)$|/current$|\.log\.\d+$`)
	staticRE      = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|svg|ico|woff2?|ttf|eot|css|js\.map)$`)
)

// Classify inspects path and returns the classification used to decide
// whether the scanner reads it, restated here in a form the scanner can
// branch on rather than a single boolean).
func Classify(path string) model.FileClassification {
	base := filepath.Base(path)
	inLogDir := strings.Contains("/"+path, "/log/")

	switch {
	case schemaRE.MatchString(base):
		return model.ClassSchema
	case systemInfoRE.MatchString(base):
		return model.ClassSystemInfo
	case kubeRE.MatchString(path):
		return model.ClassKubeResource
	case monitoringRE.MatchString(path):
		return model.ClassMonitoringOnly
	case staticRE.MatchString(base):
		return model.ClassStatic
	case configRE.MatchString(base) && !inLogDir:
		return model.ClassConfig
	case logSuitableRE.MatchString(path) || inLogDir:
		return model.ClassLogSuitable
	default:
		return model.ClassUnknown
	}
}

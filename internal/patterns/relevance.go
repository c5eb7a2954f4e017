package patterns

import (
	"strings"

	"github.com/weaponry/autogrep/internal/model"
)

// alwaysComponents is unioned into every path's relevant-component set.
var alwaysComponents = []model.Component{
	model.ComponentSystem, model.ComponentNetwork, model.ComponentGeneric,
}

// pathComponentTable maps a lowercased path substring to the components whose
// patterns should be tried against files under that path. Order doesn't
// matter; a path may match several substrings and the resulting component
// sets are unioned.
var pathComponentTable = []struct {
	substr     string
	components []model.Component
}{
	{"sidekiq", []model.Component{model.ComponentSidekiq, model.ComponentRails, model.ComponentRedis}},
	{"gitaly", []model.Component{model.ComponentGitaly, model.ComponentGitShell}},
	{"praefect", []model.Component{model.ComponentGitaly, model.ComponentGitShell}},
	{"postgres", []model.Component{model.ComponentPostgreSQL}},
	{"pg_", []model.Component{model.ComponentPostgreSQL}},
	{"pgbouncer", []model.Component{model.ComponentPostgreSQL}},
	{"redis", []model.Component{model.ComponentRedis}},
	{"workhorse", []model.Component{model.ComponentWorkhorse}},
	{"nginx", []model.Component{model.ComponentNginx}},
	{"unicorn", []model.Component{model.ComponentRails}},
	{"puma", []model.Component{model.ComponentRails}},
	{"rails", []model.Component{model.ComponentRails}},
	{"production.log", []model.Component{model.ComponentRails}},
	{"application.log", []model.Component{model.ComponentRails}},
	{"auth.log", []model.Component{model.ComponentAuth}},
	{"/auth/", []model.Component{model.ComponentAuth}},
	{"geo", []model.Component{model.ComponentGeo}},
	{"kube", []model.Component{model.ComponentKubernetes}},
	{"k8s", []model.Component{model.ComponentKubernetes}},
	{"helm", []model.Component{model.ComponentKubernetes}},
	{"ssl", []model.Component{model.ComponentSSL}},
	{"cert", []model.Component{model.ComponentSSL}},
	{"git/", []model.Component{model.ComponentGitShell}},
	{"gitlab-shell", []model.Component{model.ComponentGitShell}},
	{"ci_cd", []model.Component{model.ComponentCICD}},
	{"runner", []model.Component{model.ComponentCICD}},
	{"pipeline", []model.Component{model.ComponentCICD}},
}

// componentsForPath returns the set of components whose patterns apply to
// path, always including the always-on components. Never returns an empty
// set — unknown path types fall back to the always-on generic set.
func componentsForPath(path string) map[model.Component]bool {
	lower := strings.ToLower(path)

	set := make(map[model.Component]bool, len(alwaysComponents)+2)
	for _, c := range alwaysComponents {
		set[c] = true
	}

	for _, rule := range pathComponentTable {
		if strings.Contains(lower, rule.substr) {
			for _, c := range rule.components {
				set[c] = true
			}
		}
	}

	return set
}

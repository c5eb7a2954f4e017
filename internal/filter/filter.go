// Package filter provides declarative include/exclude regexp pairs used to
// scope which archive paths or components the engine pays attention to.
package filter

import (
	"regexp"

	"github.com/weaponry/autogrep/internal/log"
)

// Filter describes an include/exclude regexp pair for matching against a string target.
type Filter struct {
	// Exclude pattern string.
	Exclude string `yaml:"exclude,omitempty"`
	// Compiled exclude pattern regexp.
	ExcludeRE *regexp.Regexp
	// Include pattern string.
	Include string `yaml:"include,omitempty"`
	// Compiled include pattern regexp.
	IncludeRE *regexp.Regexp
}

// DefaultPathFilters sets up default EXCLUDE patterns for archive paths that are
// never worth scanning regardless of the false-positive filter (macOS resource
// forks, version-control metadata) — a coarser, cheaper pre-check than the
// per-file classification pass.
func DefaultPathFilters(filters map[string]Filter) {
	log.Debug("define default path filters")

	if _, ok := filters["archive/path"]; !ok {
		filters["archive/path"] = Filter{Exclude: `(^|/)(\._|\.git/|\.DS_Store$)`}
	}
}

// CompileFilters walks through filters and compiles their regexps.
func CompileFilters(filters map[string]Filter) error {
	log.Debug("compile filters")

	for key, f := range filters {
		if f.Exclude != "" {
			re, err := regexp.Compile(f.Exclude)
			if err != nil {
				return err
			}
			f.ExcludeRE = re
		}

		if f.Include != "" {
			re, err := regexp.Compile(f.Include)
			if err != nil {
				return err
			}
			f.IncludeRE = re
		}

		// Save updated filter back to map.
		filters[key] = f
	}

	log.Debug("filters compiled successfully")
	return nil
}

// Pass checks whether target satisfies the filter's regexps.
func (f *Filter) Pass(target string) bool {
	// Filters not specified - pass the target.
	if f.ExcludeRE == nil && f.IncludeRE == nil {
		return true
	}

	if f.ExcludeRE != nil && f.IncludeRE != nil {
		// Target matches to 'exclude' and 'include' - reject, exclude has higher priority.
		if f.ExcludeRE.MatchString(target) && f.IncludeRE.MatchString(target) {
			return false
		}
		// Target neither match 'exclude' nor 'include' - reject, target doesn't match to include explicitly.
		if !f.ExcludeRE.MatchString(target) && !f.IncludeRE.MatchString(target) {
			return false
		}
		// Target matches to 'exclude' and doesn't match to 'include' - reject.
		if f.ExcludeRE.MatchString(target) && !f.IncludeRE.MatchString(target) {
			return false
		}
		// Target doesn't match to 'exclude' and matches to 'include' - pass.
		if !f.ExcludeRE.MatchString(target) && f.IncludeRE.MatchString(target) {
			return true
		}
	}

	// Exclude is specified and target matches 'exclude' - reject.
	if f.ExcludeRE != nil && f.ExcludeRE.MatchString(target) {
		log.Debugln("exclude target ", target)
		return false
	}
	// Include is specified and target doesn't match 'include' - reject.
	if f.IncludeRE != nil && !f.IncludeRE.MatchString(target) {
		log.Debugln("exclude target ", target)
		return false
	}
	// Here means Include is specified and target matches 'include' - pass.
	return true
}

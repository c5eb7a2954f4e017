package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weaponry/autogrep/internal/model"
)

func TestClassify(t *testing.T) {
	cases := map[string]model.FileClassification{
		"db/schema.rb":              model.ClassSchema,
		"db/structure.sql":          model.ClassSchema,
		"system_info/top_output.txt": model.ClassSystemInfo,
		"kube/kube-system_pods.log": model.ClassKubeResource,
		"gitlab.yml":                model.ClassConfig,
		"log/gitlab.yml":            model.ClassLogSuitable,
		"gitaly/current":            model.ClassLogSuitable,
		"sidekiq/current":           model.ClassLogSuitable,
		"assets/app.css":            model.ClassStatic,
		"README.md":                 model.ClassUnknown,
	}
	for path, want := range cases {
		assert.Equal(t, want, Classify(path), path)
	}
}

func TestClassify_Scannable(t *testing.T) {
	assert.True(t, model.ClassLogSuitable.Scannable())
	assert.True(t, model.ClassKubeResource.Scannable())
	assert.False(t, model.ClassSchema.Scannable())
}

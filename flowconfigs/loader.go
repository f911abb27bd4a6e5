package flowconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/arcflow/cmds"
	"github.com/reusee/arcflow/configs"
	"github.com/reusee/arcflow/logs"
)

//go:embed schema.cue
var schema string

var configFiles = cmds.Collect[string]("-config")

var filenames = []string{
	"arcflow.cue",
	".arcflow.cue",
}

// ConfigPaths returns existing config files, highest priority first.
func ConfigPaths() (paths []string) {
	paths = append(paths, *configFiles...)
	if path := os.Getenv("ARCFLOW_CONFIG"); path != "" {
		paths = append(paths, path)
	}

	var dirs []string
	if workingDir, err := os.Getwd(); err == nil {
		dirs = append(dirs, workingDir)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, configDir)
	}
	dirs = append(dirs, "/etc")

	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return
}

func (Module) ConfigsLoader(
	logger logs.Logger,
) configs.Loader {
	paths := ConfigPaths()
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", paths,
		)
	}
	return configs.NewLoader(paths, schema)
}

// NewLoader returns a loader for the given files validated against the application schema.
func NewLoader(paths ...string) configs.Loader {
	return configs.NewLoader(paths, schema)
}

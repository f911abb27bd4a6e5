package flowconfigs

import (
	"runtime"
	"slices"

	"github.com/reusee/arcflow/cmds"
	"github.com/reusee/arcflow/configs"
	"github.com/reusee/arcflow/sources"
	"github.com/reusee/arcflow/vars"
)

// StorageURL is the base URL of a project service.
type StorageURL string

// StorageDir is a directory holding project documents.
type StorageDir string

// PostgresDSN selects the postgres document store.
type PostgresDSN string

type MQTTBroker string

type MQTTTopic string

// OutputDir is where published packages are written.
type OutputDir string

type PackageName string

type MaxConcurrentBuilds int

var (
	storageURLFlag   = cmds.Var[string]("-storage-url")
	storageDirFlag   = cmds.Var[string]("-storage-dir")
	postgresFlag     = cmds.Var[string]("-postgres")
	mqttBrokerFlag   = cmds.Var[string]("-mqtt")
	outputDirFlag    = cmds.Var[string]("-output")
	packageNameFlag  = cmds.Var[string]("-package-name")
	jobsFlag         = cmds.Var[int]("-jobs")
	builtinTypesFlag = cmds.Collect[string]("-builtin")
)

var defaultBuiltinTypes = sources.BuiltinTypes{
	"Generic",
	"GenericWithPose",
	"Robot",
	"Camera",
}

func (Module) StorageURL(
	loader configs.Loader,
) StorageURL {
	return vars.FirstNonZero(
		StorageURL(*storageURLFlag),
		configs.First[StorageURL](loader, "storage_url"),
	)
}

func (Module) StorageDir(
	loader configs.Loader,
) StorageDir {
	return vars.FirstNonZero(
		StorageDir(*storageDirFlag),
		configs.First[StorageDir](loader, "storage_dir"),
	)
}

func (Module) PostgresDSN(
	loader configs.Loader,
) PostgresDSN {
	return vars.FirstNonZero(
		PostgresDSN(*postgresFlag),
		configs.First[PostgresDSN](loader, "postgres_dsn"),
	)
}

func (Module) MQTTBroker(
	loader configs.Loader,
) MQTTBroker {
	return vars.FirstNonZero(
		MQTTBroker(*mqttBrokerFlag),
		configs.First[MQTTBroker](loader, "mqtt_broker"),
	)
}

func (Module) MQTTTopic(
	loader configs.Loader,
) MQTTTopic {
	return vars.FirstNonZero(
		configs.First[MQTTTopic](loader, "mqtt_topic"),
		"arcflow/builds",
	)
}

func (Module) OutputDir(
	loader configs.Loader,
) OutputDir {
	return vars.FirstNonZero(
		OutputDir(*outputDirFlag),
		configs.First[OutputDir](loader, "output_dir"),
		"packages",
	)
}

func (Module) PackageName(
	loader configs.Loader,
) PackageName {
	return vars.FirstNonZero(
		PackageName(*packageNameFlag),
		configs.First[PackageName](loader, "package_name"),
		"N/A",
	)
}

func (Module) MaxConcurrentBuilds(
	loader configs.Loader,
) MaxConcurrentBuilds {
	return vars.FirstNonZero(
		MaxConcurrentBuilds(*jobsFlag),
		configs.First[MaxConcurrentBuilds](loader, "max_concurrent_builds"),
		MaxConcurrentBuilds(runtime.NumCPU()),
	)
}

// BuiltinTypes are object types provided by the runtime, never published as modules.
func (Module) BuiltinTypes(
	loader configs.Loader,
) sources.BuiltinTypes {
	ret := slices.Clone(defaultBuiltinTypes)
	for types := range configs.All[[]string](loader, "builtin_types") {
		ret = append(ret, types...)
	}
	ret = append(ret, *builtinTypesFlag...)
	slices.Sort(ret)
	return slices.Compact(ret)
}

package flowconfigs

import (
	"github.com/reusee/arcflow/configs"
	"github.com/reusee/arcflow/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Logs    logs.Module
}

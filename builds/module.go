package builds

import (
	"time"

	"github.com/reusee/arcflow/flowconfigs"
	"github.com/reusee/arcflow/logs"
	"github.com/reusee/arcflow/notifies"
	"github.com/reusee/arcflow/storages"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs  flowconfigs.Module
	Logs     logs.Module
	Storages storages.Module
	Notifies notifies.Module
}

type Clock func() time.Time

func (Module) Clock() Clock {
	return func() time.Time {
		return time.Now().UTC()
	}
}

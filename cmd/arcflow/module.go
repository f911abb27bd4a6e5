package main

import (
	"github.com/reusee/arcflow/builds"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Builds builds.Module
}

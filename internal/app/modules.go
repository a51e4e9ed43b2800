package app

import (
	"github.com/vk/netgraph/internal/registry"
	"github.com/vk/netgraph/modules/add"
	"github.com/vk/netgraph/modules/dense"
	"github.com/vk/netgraph/modules/input"
	"github.com/vk/netgraph/modules/output"
	"github.com/vk/netgraph/modules/relu"
	"github.com/vk/netgraph/modules/softmax"
)

// coreModules is the definitive list of all layer modules that are compiled
// into the netgraph binary.
var coreModules = []registry.Module{
	&input.Module{},
	&dense.Module{},
	&relu.Module{},
	&softmax.Module{},
	&add.Module{},
	&output.Module{},
}

package app

import (
	"github.com/vk/plantsimgo/internal/registry"
	"github.com/vk/plantsimgo/models/beer"
	"github.com/vk/plantsimgo/models/degreedays"
	"github.com/vk/plantsimgo/models/lai"
	"github.com/vk/plantsimgo/models/rue"
)

// coreModels is the definitive list of all model packages compiled into
// the plantsimgo binary.
var coreModels = []registry.Module{
	&degreedays.Module{},
	&lai.Module{},
	&beer.Module{},
	&rue.Module{},
}

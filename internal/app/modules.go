package app

import (
	"github.com/specialistvlad/ixdecode/internal/anchoridl"
	"github.com/specialistvlad/ixdecode/internal/catalog"
	"github.com/specialistvlad/ixdecode/internal/config"
	"github.com/specialistvlad/ixdecode/internal/hcl_adapter"
	"github.com/specialistvlad/ixdecode/modules/jupiter"
	"github.com/specialistvlad/ixdecode/modules/raydium"
)

// builtinModules is the definitive list of all schema modules that are
// compiled into the ixdecode binary.
var builtinModules = []catalog.Module{
	&jupiter.Module{},
	&raydium.Module{},
}

// newLoader returns the loader for schema files given on the command line.
func newLoader() *config.Dispatcher {
	d := config.NewDispatcher()
	d.Register(".json", anchoridl.NewLoader())
	d.Register(".hcl", hcl_adapter.NewLoader())
	return d
}

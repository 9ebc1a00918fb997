package bankimport

import (
	"github.com/smallbiznis/balanza/internal/bankimport/parser"
	"github.com/smallbiznis/balanza/internal/bankimport/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bankimport.service",
	fx.Provide(parser.DefaultRegistry),
	fx.Provide(service.New),
)

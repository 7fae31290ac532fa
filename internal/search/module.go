// Package search wires the search session engine and its HTTP handler.
package search

import (
	apphttp "github.com/jimmyqian/sovra-ui-sub000/internal/http"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/handler"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/service"
	"github.com/jimmyqian/sovra-ui-sub000/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(deps service.Deps, val *validator.Validator) *Module {
	svc := service.New(deps)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "search"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

var _ apphttp.Module = (*Module)(nil)

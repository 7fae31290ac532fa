package http

import (
	"github.com/jimmyqian/sovra-ui-sub000/platform/config"

	"github.com/gin-gonic/gin"
)

// Module is an HTTP-facing feature that mounts its own routes. The router
// knows modules only through this interface.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what a module may reach while registering routes.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is the rate-limited /api/v1 group.
	V1     *gin.RouterGroup
	Config config.HTTPConfig
}

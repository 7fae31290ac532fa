// Package http holds the pieces the router is assembled from: the App built
// by the composition root and the Module contract features implement.
package http

import (
	"github.com/jimmyqian/sovra-ui-sub000/platform/config"
	"github.com/jimmyqian/sovra-ui-sub000/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.RateLimitConfig
	IsDevelopment() bool
}

// App is everything router.New needs, assembled by cmd/api.
type App struct {
	Config  RouterConfig
	Logger  *logger.Logger
	Modules []Module
}

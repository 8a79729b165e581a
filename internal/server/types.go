package server

import (
	"net/http"
	"time"

	"github.com/layer10security/formrelay/internal/config"
	"github.com/layer10security/formrelay/internal/ratelimit"
	"github.com/layer10security/formrelay/internal/service"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	router     *gin.Engine
	cfg        *config.Config
	limiter    ratelimit.Limiter
	httpServer *http.Server
}

// Options overrides collaborators that are otherwise built from config
type Options struct {
	Notifier service.Notifier
	Limiter  ratelimit.Limiter
	Now      func() time.Time
}

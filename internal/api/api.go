// Package api exposes the bot's status over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"pkg.twizy.sh/konikotaka/internal/storage/model"
)

type Config struct {
	Port uint16
	// Key guards the stats endpoint; empty disables it.
	Key string
}

func NewConfig(port uint16, key string) *Config {
	return &Config{Port: port, Key: key}
}

// Status mirrors the gateway connection state. Implemented by the
// discord layer.
type Status interface {
	Connected() bool
	Latency() time.Duration
	Guilds() int
}

// PingStore reads persisted latency samples.
type PingStore interface {
	RecentPings(ctx context.Context, limit int) ([]*model.Ping, error)
}

type API struct {
	ctx     context.Context
	logger  *zap.SugaredLogger
	status  Status
	pings   PingStore
	key     string
	started time.Time
	router  *gin.Engine
	serv    *http.Server
}

func NewAPI(ctx context.Context, logger *zap.SugaredLogger, status Status, pings PingStore, config *Config) *API {
	a := &API{
		ctx:     ctx,
		logger:  logger,
		status:  status,
		pings:   pings,
		key:     config.Key,
		started: time.Now(),
		router:  gin.New(),
	}
	a.serv = &http.Server{Addr: fmt.Sprintf(":%d", config.Port), Handler: a.router}
	return a
}

func (a *API) Listen() {
	a.registerGetHealth()
	a.registerGetStats()
	go func() {
		if err := a.serv.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				a.logger.Errorf("Server returned with error: %s.", err)
			}
		}
	}()
}

func (a *API) Close() error {
	return a.serv.Close()
}

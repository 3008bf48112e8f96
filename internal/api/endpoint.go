package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"pkg.twizy.sh/konikotaka/internal/storage/model"
)

const pingHistoryLimit = 12

// registerGetHealth GET / and GET /health
func (a *API) registerGetHealth() {
	h := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
	a.router.GET("/", h)
	a.router.GET("/health", h)
}

// registerGetStats GET /stats
func (a *API) registerGetStats() {
	type pingModel struct {
		Gateway int32     `json:"gateway_ms"`
		REST    int32     `json:"rest_ms"`
		Date    time.Time `json:"date"`
	}

	type statsModel struct {
		Connected  bool        `json:"connected"`
		LatencyMS  int64       `json:"latency_ms"`
		Guilds     int         `json:"guilds"`
		Uptime     string      `json:"uptime"`
		AllocBytes uint64      `json:"alloc_bytes"`
		Goroutines int         `json:"goroutines"`
		Pings      []pingModel `json:"pings"`
	}

	a.router.GET("/stats", func(c *gin.Context) {
		if a.key == "" || c.GetHeader("X-API-KEY") != a.key {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
			return
		}

		var pings []*model.Ping
		var err error
		if pings, err = a.pings.RecentPings(a.ctx, pingHistoryLimit); err != nil {
			a.logger.Errorf("Failed to load ping history: %s.", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return
		}

		pm := make([]pingModel, len(pings))
		for i, p := range pings {
			pm[i] = pingModel{p.PingWS, p.PingREST, p.Date}
		}

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		c.JSON(http.StatusOK, &statsModel{
			Connected:  a.status.Connected(),
			LatencyMS:  a.status.Latency().Milliseconds(),
			Guilds:     a.status.Guilds(),
			Uptime:     time.Since(a.started).Round(time.Second).String(),
			AllocBytes: mem.Alloc,
			Goroutines: runtime.NumGoroutine(),
			Pings:      pm,
		})
	})
}

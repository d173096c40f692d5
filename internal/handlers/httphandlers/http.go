package httphandlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackprotocol/jack-staking/internal/interfaces"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
	"go.uber.org/atomic"
)

const BuildVersion = "0.1.0"

type Sanitizable interface {
	GetSanitized() interface{}
}

type HTTPHandler struct {
	staking staking.StakingReader
	config  Sanitizable
	metrics *Metrics
	ready   *atomic.Bool
	log     interfaces.ILogger
}

// NewHTTPHandler serves the state of one deployed JackStaking contract. Until ready is set
// the healthcheck reports the service as starting
func NewHTTPHandler(stakingReader staking.StakingReader, cfg Sanitizable, metrics *Metrics, ready *atomic.Bool, log interfaces.ILogger) *gin.Engine {
	handl := &HTTPHandler{
		staking: stakingReader,
		config:  cfg,
		metrics: metrics,
		ready:   ready,
		log:     log,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(log))

	r.GET("/healthcheck", handl.HealthCheck)
	r.GET("/config", handl.GetConfig)
	r.GET("/staking", handl.GetStaking)
	r.GET("/stakers", handl.GetStakers)
	// gin requires one wildcard name per path segment, id is an index or an address
	r.GET("/stakers/:id", handl.GetStaker)
	r.GET("/stakers/:id/stake-info", handl.GetStakeInfo)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	err := r.SetTrustedProxies(nil)
	if err != nil {
		panic(err)
	}

	return r
}

func (h *HTTPHandler) HealthCheck(ctx *gin.Context) {
	if !h.ready.Load() {
		ctx.JSON(503, gin.H{
			"status":  "starting",
			"version": BuildVersion,
		})
		return
	}
	ctx.JSON(200, gin.H{
		"status":  "healthy",
		"version": BuildVersion,
	})
}

func (h *HTTPHandler) GetConfig(ctx *gin.Context) {
	ctx.JSON(200, ConfigResponse{
		Version: BuildVersion,
		Config:  h.config.GetSanitized(),
	})
}

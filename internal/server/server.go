package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	alarmdomain "github.com/wattpay/wattpay/internal/alarm/domain"
	"github.com/wattpay/wattpay/internal/config"
	paymentdomain "github.com/wattpay/wattpay/internal/payment/domain"
	"github.com/wattpay/wattpay/internal/ratelimit"
	readingdomain "github.com/wattpay/wattpay/internal/reading/domain"
	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	usersvc       userdomain.Service
	alarmsvc      alarmdomain.Service
	readingsvc    readingdomain.Service
	gateway       paymentdomain.ChainGateway
	ingestLimiter *ratelimit.IngestLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	Usersvc       userdomain.Service
	Alarmsvc      alarmdomain.Service
	Readingsvc    readingdomain.Service
	Gateway       paymentdomain.ChainGateway
	IngestLimiter *ratelimit.IngestLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("http.server"),
		usersvc:       p.Usersvc,
		alarmsvc:      p.Alarmsvc,
		readingsvc:    p.Readingsvc,
		gateway:       p.Gateway,
		ingestLimiter: p.IngestLimiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Users --------
	api.POST("/users", s.CreateUser)
	api.GET("/users/:id", s.GetUserByID)
	api.GET("/users/:id/chart", s.GenerateChart)
	api.GET("/users/:id/alarms", s.ListAlarms)
	api.GET("/users/:id/alarm-history", s.AlarmHistory)
	api.GET("/users/:id/balance", s.WalletBalance)

	// -------- Alarms --------
	api.POST("/alarms", s.CreateAlarm)
	api.GET("/alarms/:id", s.GetAlarmByID)
	api.POST("/alarms/:id/toggle", s.ToggleAlarm)
	api.DELETE("/alarms/:id", s.DeleteAlarm)
	api.DELETE("/alarm-history/:id", s.DeleteAlarmHistory)

	// -------- Readings --------
	api.POST("/readings", s.IngestRateLimit(), s.IngestReading)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

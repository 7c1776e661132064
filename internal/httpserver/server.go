package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/matheusmosca/inventory-app/internal/config"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewEngine monta o router gin com os middlewares comuns e as rotas de health:
// GET / responde upMessage (quando não vazio) e GET /health verifica o banco quando db != nil.
func NewEngine(cfg config.Config, upMessage string, db Pinger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(RequestID())
	r.Use(CORS())
	if cfg.OTelEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}

	if upMessage != "" {
		r.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, upMessage)
		})
	}

	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				log.Printf("❌ [HEALTH] database ping failed: %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "service": cfg.ServiceName})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": cfg.ServiceName})
	})

	return r
}

// Run serves handler on cfg.Port until SIGINT/SIGTERM, then shuts down gracefully.
func Run(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 %s listening on port %s", cfg.ServiceName, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	select {
	case err := <-errCh:
		return err
	case s := <-sigc:
		log.Printf("🛑 %s received %s, shutting down", cfg.ServiceName, s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

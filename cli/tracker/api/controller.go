package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

type Controller struct {
	Handler *Handler
	router  *gin.Engine
	server  *http.Server
}

func NewController(handler *Handler, allowedOrigins []string) *Controller {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/get_all_data", handler.GetAllData)
	router.GET("/latest_device_info", handler.GetLatestDeviceInfo)
	router.GET("/fetch_start_end_location", handler.FetchStartEndLocation)
	router.GET("/fetch_location_points", handler.FetchLocationPoints)
	router.GET("/health", handler.Health)

	c := &Controller{Handler: handler, router: router}
	c.server = &http.Server{
		Handler: cors.New(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet},
		}).Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return c
}

// ServeHTTP позволяет проверять маршруты без запуска сервера.
func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.server.Handler.ServeHTTP(w, r)
}

func (c *Controller) Run(addr string) error {
	c.server.Addr = addr
	log.Infof("Запуск API на %s", addr)
	if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (c *Controller) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"query":    c.Request.URL.RawQuery,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("HTTP запрос")
	}
}

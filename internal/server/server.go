package server

import (
	"log/slog"
	"net/http"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zosconnect/orchestrate/internal/client"
	"github.com/zosconnect/orchestrate/internal/metrics"
	"github.com/zosconnect/orchestrate/internal/orchestrator"
	"github.com/zosconnect/orchestrate/pkg/log"
)

type (
	// Server implements the HTTP API server for the orchestrator
	Server struct {
		orch     *orchestrator.Orchestrator
		metrics  *metrics.Metrics
		variants []Variant
		port     int
	}

	// Variant names one group of orchestration endpoints
	Variant string
)

const (
	VariantContact Variant = "contact"
	VariantOrder   Variant = "order"
	VariantClaim   Variant = "claim"
)

const requestIDKey = "request_id"

// AllVariants lists every variant the server can expose
func AllVariants() []Variant {
	return []Variant{VariantContact, VariantOrder, VariantClaim}
}

// NewServer creates an API server exposing the given variants. The port is
// only reported by the banner
func NewServer(
	orch *orchestrator.Orchestrator, m *metrics.Metrics, port int,
	variants ...Variant,
) *Server {
	return &Server{
		orch:     orch,
		metrics:  m,
		variants: variants,
		port:     port,
	}
}

// SetupRoutes configures and returns the HTTP router with all API endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID)
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default().With(log.RequestID(c.GetString(requestIDKey)))
		}),
	))
	router.Use(cors)

	router.GET("/", s.handleBanner)
	router.GET("/health", s.handleHealth)
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	for _, v := range s.variants {
		switch v {
		case VariantContact:
			router.GET("/phone/contact/:lname", s.handleContact)
		case VariantOrder:
			router.POST("/product/mobile/order", s.handleOrder)
		case VariantClaim:
			router.GET("/claim/rule", s.handleClaimQuery)
			router.POST("/claim/rule", s.handleClaimBody)
		}
	}

	return router
}

func (s *Server) variantNames() []string {
	res := make([]string, len(s.variants))
	for i, v := range s.variants {
		res[i] = string(v)
	}
	return res
}

// requestID reuses the caller's X-Request-ID or assigns a new one, and
// makes it available to upstream calls through the request context
func requestID(c *gin.Context) {
	id := c.GetHeader(client.RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDKey, id)
	c.Header(client.RequestIDHeader, id)
	c.Request = c.Request.WithContext(
		client.WithRequestID(c.Request.Context(), id),
	)
	c.Next()
}

func cors(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Writer.Header().Set(
		"Access-Control-Allow-Headers",
		"Content-Type, Authorization, "+client.RequestIDHeader,
	)

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusOK)
		return
	}

	c.Next()
}

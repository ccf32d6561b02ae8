// Package api serves the social graph over HTTP with gin.
package api

import (
	"context"
	"net/http"
	"strconv"

	"socialgraph/backend/internal/graph"
	"socialgraph/backend/internal/metrics"
	"socialgraph/backend/internal/persistence"
	"socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server binds one graph to its HTTP routes. store and metrics may be nil.
type Server struct {
	graph   *graph.Graph
	store   persistence.Store
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New creates a server over g
func New(g *graph.Graph, store persistence.Store, m *metrics.Metrics, log *zap.Logger) *Server {
	if log == nil {
		log = logger.Named("api")
	}
	return &Server{graph: g, store: store, metrics: m, logger: log}
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	// Handles may contain '/', which clients send as %2F
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(requestID())
	router.Use(ginLogger(s.logger))
	router.Use(gin.Recovery())
	router.Use(cors())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}

	accounts := router.Group("/accounts")
	{
		accounts.POST("", s.createAccount)
		accounts.GET("/:handle", s.getAccount)
		accounts.PUT("/:handle/description", s.updateDescription)
		accounts.PUT("/:handle/handle", s.renameHandle)
		accounts.DELETE("/:handle", s.removeAccount)
		accounts.DELETE("/id/:id", s.removeAccountByID)
	}

	posts := router.Group("/posts")
	{
		posts.POST("", s.createPost)
		posts.POST("/:id/comments", s.createComment)
		posts.POST("/:id/endorsements", s.endorse)
		posts.GET("/:id", s.getPost)
		posts.GET("/:id/tree", s.getTree)
		posts.DELETE("/:id", s.deletePost)
	}

	router.GET("/stats", s.stats)

	admin := router.Group("/admin")
	{
		admin.POST("/save", s.save)
		admin.POST("/load", s.load)
		admin.POST("/erase", s.erase)
	}

	return router
}

// Save writes the current graph to the configured store
func (s *Server) Save(ctx context.Context) (*graph.Snapshot, error) {
	if s.store == nil {
		return nil, errors.NewPersistenceFailure("save snapshot", errNoStore)
	}
	snap := s.graph.Save()
	err := s.store.Save(ctx, snap)
	if s.metrics != nil {
		s.metrics.ObserveSnapshot("save", err)
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Load replaces the graph with the newest stored snapshot
func (s *Server) Load(ctx context.Context) error {
	if s.store == nil {
		return errors.NewPersistenceFailure("load snapshot", errNoStore)
	}
	snap, err := s.store.Load(ctx)
	if err == nil {
		err = s.graph.Load(snap)
	}
	if s.metrics != nil {
		s.metrics.ObserveSnapshot("load", err)
	}
	return err
}

var errNoStore = errors.New("no snapshot store configured")

func (s *Server) observe(operation string, err error) {
	s.record(operation, resultOf(err))
}

func (s *Server) record(operation, result string) {
	if s.metrics != nil {
		s.metrics.Observe(operation, result)
	}
}

// idParam parses the integer path parameter name
func idParam(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, errors.New("path parameter " + name + " must be an integer")
	}
	return id, nil
}

// wantsText reports whether the caller asked for the text rendering
func wantsText(c *gin.Context) bool {
	return c.Query("format") == "text"
}

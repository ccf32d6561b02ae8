package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) save(c *gin.Context) {
	const op = "save"

	snap, err := s.Save(c.Request.Context())
	if err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	c.JSON(http.StatusOK, gin.H{
		"snapshot_id": snap.ID,
		"saved_at":    snap.SavedAt,
		"accounts":    len(snap.Accounts),
		"items":       len(snap.Items),
	})
}

func (s *Server) load(c *gin.Context) {
	const op = "load"

	if err := s.Load(c.Request.Context()); err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	c.JSON(http.StatusOK, s.graph.Stats())
}

func (s *Server) erase(c *gin.Context) {
	s.graph.Erase()
	s.observe("erase", nil)
	s.logger.Warn("Graph erased over HTTP", zap.String("request_id", c.GetString(requestIDKey)))
	c.Status(http.StatusNoContent)
}

package api

import (
	"net/http"

	"socialgraph/backend/internal/format"

	"github.com/gin-gonic/gin"
)

type messageRequest struct {
	Handle  string `json:"handle"`
	Message string `json:"message"`
}

func (s *Server) createPost(c *gin.Context) {
	const op = "create_post"

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, op, err)
		return
	}

	id, err := s.graph.CreatePost(req.Handle, req.Message)
	if err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) createComment(c *gin.Context) {
	const op = "create_comment"

	parentID, err := idParam(c, "id")
	if err != nil {
		s.badRequest(c, op, err)
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, op, err)
		return
	}

	id, err := s.graph.CreateComment(req.Handle, parentID, req.Message)
	if err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	c.JSON(http.StatusCreated, gin.H{"id": id, "parent_id": parentID})
}

func (s *Server) endorse(c *gin.Context) {
	const op = "endorse"

	targetID, err := idParam(c, "id")
	if err != nil {
		s.badRequest(c, op, err)
		return
	}
	var req struct {
		Handle string `json:"handle"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, op, err)
		return
	}

	id, err := s.graph.Endorse(req.Handle, targetID)
	if err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	c.JSON(http.StatusCreated, gin.H{"id": id, "target_id": targetID})
}

func (s *Server) getPost(c *gin.Context) {
	const op = "show_post"

	id, err := idParam(c, "id")
	if err != nil {
		s.badRequest(c, op, err)
		return
	}
	post, err := s.graph.Render(id)
	if err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	if wantsText(c) {
		c.String(http.StatusOK, format.Post(post))
		return
	}
	c.JSON(http.StatusOK, post)
}

// getTree renders the reply tree as text unless format=json asks for the
// preorder nodes
func (s *Server) getTree(c *gin.Context) {
	const op = "show_tree"

	id, err := idParam(c, "id")
	if err != nil {
		s.badRequest(c, op, err)
		return
	}
	nodes, err := s.graph.Subtree(id)
	if err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, gin.H{"nodes": nodes})
		return
	}
	c.String(http.StatusOK, format.Tree(nodes))
}

func (s *Server) deletePost(c *gin.Context) {
	const op = "delete_post"

	id, err := idParam(c, "id")
	if err != nil {
		s.badRequest(c, op, err)
		return
	}
	if err := s.graph.Delete(id); err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) stats(c *gin.Context) {
	s.observe("stats", nil)
	if wantsText(c) {
		c.String(http.StatusOK, format.Stats(s.graph.Stats()))
		return
	}
	c.JSON(http.StatusOK, s.graph.Stats())
}

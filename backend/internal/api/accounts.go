package api

import (
	"net/http"

	"socialgraph/backend/internal/format"

	"github.com/gin-gonic/gin"
)

type createAccountRequest struct {
	Handle      string `json:"handle"`
	Description string `json:"description"`
}

func (s *Server) createAccount(c *gin.Context) {
	const op = "create_account"

	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, op, err)
		return
	}

	id, err := s.graph.CreateAccount(req.Handle, req.Description)
	if err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	c.JSON(http.StatusCreated, gin.H{"id": id, "handle": req.Handle})
}

func (s *Server) getAccount(c *gin.Context) {
	const op = "show_account"

	summary, err := s.graph.Summary(c.Param("handle"))
	if err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	if wantsText(c) {
		c.String(http.StatusOK, format.Account(summary))
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) updateDescription(c *gin.Context) {
	const op = "update_description"

	var req struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, op, err)
		return
	}

	handle := c.Param("handle")
	if err := s.graph.UpdateDescription(handle, req.Description); err != nil {
		s.fail(c, op, err)
		return
	}
	summary, err := s.graph.Summary(handle)
	if err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	c.JSON(http.StatusOK, summary)
}

func (s *Server) renameHandle(c *gin.Context) {
	const op = "rename_handle"

	var req struct {
		Handle string `json:"handle"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, op, err)
		return
	}

	if err := s.graph.RenameHandle(c.Param("handle"), req.Handle); err != nil {
		s.fail(c, op, err)
		return
	}
	summary, err := s.graph.Summary(req.Handle)
	if err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	c.JSON(http.StatusOK, summary)
}

func (s *Server) removeAccount(c *gin.Context) {
	const op = "remove_account"

	if err := s.graph.RemoveAccount(c.Param("handle")); err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) removeAccountByID(c *gin.Context) {
	const op = "remove_account"

	id, err := idParam(c, "id")
	if err != nil {
		s.badRequest(c, op, err)
		return
	}
	if err := s.graph.RemoveAccountByID(id); err != nil {
		s.fail(c, op, err)
		return
	}
	s.observe(op, nil)
	c.Status(http.StatusNoContent)
}

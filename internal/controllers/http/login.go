package http

import (
	"errors"
	"net/http"
	"strconv"

	"food-order-service/internal/auth"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Login(c *gin.Context) {
	if h.login == nil || h.tokens == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "login is not configured"})
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acc, err := h.login.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	switch {
	case errors.Is(err, auth.ErrLocked):
		if wait := h.login.RetryAfter(req.Email, c.ClientIP()); wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
		}
		writeError(c, err)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case err != nil:
		writeError(c, err)
		return
	}

	token, err := h.tokens.Issue(acc.Email, acc.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, Role: acc.Role})
}

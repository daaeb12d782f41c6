package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imrics/DermAI/internal/model"
	"github.com/imrics/DermAI/internal/store"
)

type createUserRequest struct {
	Name string `json:"name"`
}

func (a *App) createUser(c *gin.Context) {
	req := createUserRequest{}
	if !mustJSON(c, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(c, http.StatusBadRequest, "Name is required")
		return
	}

	user, err := a.users.Create(c.Request.Context(), name)
	if err != nil {
		a.logger.WithError(err).Error("create user failed")
		writeError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": user.ID,
		"message": "User created successfully",
	})
}

func (a *App) getUser(c *gin.Context) {
	user, ok := a.requireUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// requireUser loads the path user or writes the 404 and returns false.
func (a *App) requireUser(c *gin.Context) (model.User, bool) {
	user, err := a.users.Get(c.Request.Context(), c.Param("user_id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "User not found")
		return model.User{}, false
	}
	if err != nil {
		a.logger.WithError(err).Error("load user failed")
		writeError(c, http.StatusInternalServerError, "Failed to load user")
		return model.User{}, false
	}
	return user, true
}

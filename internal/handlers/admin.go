package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/fmtlab/fmtlab/internal/models"
	"github.com/fmtlab/fmtlab/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	msgImportSuccess = "DB operation succeed"
	msgImportFailure = "DB operation failed!!"
	msgUserNotFound  = "User not found."
)

type AdminHandler struct {
	userService *services.UserService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(us *services.UserService) *AdminHandler {
	return &AdminHandler{userService: us}
}

type userImportRequest struct {
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// ImportUsers handles POST /api/admin/users: a JSON list of user records to
// insert or update.
func (h *AdminHandler) ImportUsers(c *gin.Context) {
	var reqs []userImportRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, models.Failure(msgImportFailure))
		return
	}

	inputs := make([]services.UserInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, services.UserInput{
			Username: r.UserName,
			FullName: r.FullName,
			Email:    r.Email,
		})
	}

	applied, err := h.userService.ImportUsers(inputs)
	if err != nil {
		c.JSON(http.StatusOK, models.Failure(msgImportFailure))
		return
	}

	c.JSON(http.StatusOK, models.Success(map[string]string{
		"message": fmt.Sprintf("%s (%d users)", msgImportSuccess, applied),
	}))
}

// userDetails is the user record as exposed to admin clients. The password
// digest is never part of it.
type userDetails struct {
	ID       uint   `json:"id"`
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
	AuthType int    `json:"authenticationTypeID"`
}

// GetUser handles GET /api/admin/users/:id.
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Failure(msgUserNotFound))
		return
	}

	user, err := h.userService.GetUserByID(uint(id))
	if err != nil {
		c.JSON(http.StatusOK, models.Failure(msgUserNotFound))
		return
	}

	c.JSON(http.StatusOK, models.Success(userDetails{
		ID:       user.ID,
		UserName: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
		IsActive: user.IsActive,
		AuthType: user.AuthType,
	}))
}

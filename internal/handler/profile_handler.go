package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduverse-labs/eduverse-api/internal/service"
	appErrors "github.com/eduverse-labs/eduverse-api/pkg/errors"
	"github.com/eduverse-labs/eduverse-api/pkg/response"
)

// ProfileHandler wires HTTP endpoints to the user service.
type ProfileHandler struct {
	service *service.UserService
}

// NewProfileHandler creates a new handler.
func NewProfileHandler(svc *service.UserService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// Get godoc
// @Summary Get own profile
// @Description Returns the authenticated user's profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	user, err := h.service.GetProfile(c.Request.Context(), subjectFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user)
}

// Update godoc
// @Summary Update own profile
// @Description Update name, bio and avatar of the authenticated user
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body service.UpdateProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), subjectFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user)
}

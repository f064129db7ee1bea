package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jviitor13/rodocheck/internal/middleware"
	"github.com/jviitor13/rodocheck/internal/services"
	"github.com/jviitor13/rodocheck/pkg/response"
	"gorm.io/gorm"
)

type TireHandler struct {
	tireService *services.TireService
}

func NewTireHandler(db *gorm.DB) *TireHandler {
	return &TireHandler{
		tireService: services.NewTireService(db),
	}
}

// List returns paginated tires
// GET /api/tires
func (h *TireHandler) List(c *gin.Context) {
	req := services.TireListRequest{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tireService.List(middleware.GetUserID(c), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

// GetByID returns a tire by ID
// GET /api/tires/:id
func (h *TireHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tire id")
		return
	}

	tire, err := h.tireService.Get(uint(id), middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "tire not found")
		return
	}
	response.Success(c, tire)
}

// Create registers a new tire
// POST /api/tires
func (h *TireHandler) Create(c *gin.Context) {
	var req services.CreateTireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tire, err := h.tireService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		if isTireValidationErr(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Created(c, tire)
}

// Update modifies a tire
// PUT /api/tires/:id
func (h *TireHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tire id")
		return
	}

	var req services.UpdateTireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tire, err := h.tireService.Update(uint(id), middleware.GetUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTireNotFound):
			response.NotFound(c, "tire not found")
		case isTireValidationErr(err):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}
	response.Success(c, tire)
}

// Delete removes a tire
// DELETE /api/tires/:id
func (h *TireHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tire id")
		return
	}

	if err := h.tireService.Delete(uint(id), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrTireNotFound) {
			response.NotFound(c, "tire not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "tire deleted"})
}

// Stats summarizes the user's tire fleet
// GET /api/tires/stats
func (h *TireHandler) Stats(c *gin.Context) {
	stats, err := h.tireService.GetStats(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, stats)
}

func isTireValidationErr(err error) bool {
	return errors.Is(err, services.ErrInvalidTireStatus) ||
		errors.Is(err, services.ErrInvalidTirePosition) ||
		errors.Is(err, services.ErrSerialTaken)
}

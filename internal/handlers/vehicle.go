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

type VehicleHandler struct {
	vehicleService *services.VehicleService
}

func NewVehicleHandler(db *gorm.DB) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: services.NewVehicleService(db),
	}
}

// List returns paginated vehicles
// GET /api/vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	req := services.VehicleListRequest{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.vehicleService.List(middleware.GetUserID(c), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

// GetByID returns a vehicle by ID
// GET /api/vehicles/:id
func (h *VehicleHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid vehicle id")
		return
	}

	vehicle, err := h.vehicleService.Get(uint(id), middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "vehicle not found")
		return
	}
	response.Success(c, vehicle)
}

// Create registers a new vehicle
// POST /api/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var req services.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	vehicle, err := h.vehicleService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		if isVehicleValidationErr(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Created(c, vehicle)
}

// Update modifies a vehicle
// PUT /api/vehicles/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid vehicle id")
		return
	}

	var req services.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	vehicle, err := h.vehicleService.Update(uint(id), middleware.GetUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVehicleNotFound):
			response.NotFound(c, "vehicle not found")
		case isVehicleValidationErr(err):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}
	response.Success(c, vehicle)
}

// Delete removes a vehicle
// DELETE /api/vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid vehicle id")
		return
	}

	if err := h.vehicleService.Delete(uint(id), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrVehicleNotFound) {
			response.NotFound(c, "vehicle not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "vehicle deleted"})
}

func isVehicleValidationErr(err error) bool {
	return errors.Is(err, services.ErrInvalidPlate) ||
		errors.Is(err, services.ErrInvalidYear) ||
		errors.Is(err, services.ErrInvalidVehicleType) ||
		errors.Is(err, services.ErrPlateTaken)
}

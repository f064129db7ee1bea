package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jviitor13/rodocheck/internal/config"
	"github.com/jviitor13/rodocheck/internal/middleware"
	"github.com/jviitor13/rodocheck/internal/services"
	"github.com/jviitor13/rodocheck/pkg/response"
	"gorm.io/gorm"
)

type ChecklistHandler struct {
	checklistService *services.ChecklistService
}

func NewChecklistHandler(db *gorm.DB, cfg *config.Config) *ChecklistHandler {
	return &ChecklistHandler{
		checklistService: services.NewChecklistService(db, services.NewReportService(), cfg.Media.Root),
	}
}

// ListTemplates returns the user's checklist templates
// GET /api/checklists/templates
func (h *ChecklistHandler) ListTemplates(c *gin.Context) {
	templates, err := h.checklistService.ListTemplates(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, templates)
}

// GetTemplate returns one template
// GET /api/checklists/templates/:id
func (h *ChecklistHandler) GetTemplate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid template id")
		return
	}

	template, err := h.checklistService.GetTemplate(uint(id), middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "template not found")
		return
	}
	response.Success(c, template)
}

// CreateTemplate creates a checklist template
// POST /api/checklists/templates
func (h *ChecklistHandler) CreateTemplate(c *gin.Context) {
	var req services.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	template, err := h.checklistService.CreateTemplate(&req, middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Created(c, template)
}

// UpdateTemplate modifies a checklist template
// PUT /api/checklists/templates/:id
func (h *ChecklistHandler) UpdateTemplate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid template id")
		return
	}

	var req services.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	template, err := h.checklistService.UpdateTemplate(uint(id), middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			response.NotFound(c, "template not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, template)
}

// DeleteTemplate removes a checklist template
// DELETE /api/checklists/templates/:id
func (h *ChecklistHandler) DeleteTemplate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid template id")
		return
	}

	if err := h.checklistService.DeleteTemplate(uint(id), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			response.NotFound(c, "template not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "template deleted"})
}

// List returns paginated completed checklists
// GET /api/checklists
func (h *ChecklistHandler) List(c *gin.Context) {
	req := services.ChecklistListRequest{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.checklistService.List(middleware.GetUserID(c), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

// GetByID returns one completed checklist
// GET /api/checklists/:id
func (h *ChecklistHandler) GetByID(c *gin.Context) {
	checklist, err := h.checklistService.Get(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "checklist not found")
		return
	}
	response.Success(c, checklist)
}

// Create stores a completed checklist and renders its PDF best-effort
// POST /api/checklists
func (h *ChecklistHandler) Create(c *gin.Context) {
	var req services.CreateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	checklist, err := h.checklistService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVehicleNotFound), errors.Is(err, services.ErrTemplateNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, services.ErrInvalidFinalStatus):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}
	response.Created(c, checklist)
}

// Update modifies a completed checklist
// PUT /api/checklists/:id
func (h *ChecklistHandler) Update(c *gin.Context) {
	var req services.UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	checklist, err := h.checklistService.Update(c.Param("id"), middleware.GetUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChecklistNotFound):
			response.NotFound(c, "checklist not found")
		case errors.Is(err, services.ErrInvalidFinalStatus):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}
	response.Success(c, checklist)
}

// Delete removes a completed checklist
// DELETE /api/checklists/:id
func (h *ChecklistHandler) Delete(c *gin.Context) {
	if err := h.checklistService.Delete(c.Param("id"), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrChecklistNotFound) {
			response.NotFound(c, "checklist not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "checklist deleted"})
}

// Download streams the checklist PDF as an attachment
// GET /api/checklists/:id/download
func (h *ChecklistHandler) Download(c *gin.Context) {
	path, filename, err := h.checklistService.Download(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChecklistNotFound):
			response.NotFound(c, "checklist not found")
		case errors.Is(err, services.ErrPDFNotAvailable):
			response.ServerError(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}

// DownloadInfo reports PDF availability without counting a download
// GET /api/checklists/:id/download-info
func (h *ChecklistHandler) DownloadInfo(c *gin.Context) {
	info, err := h.checklistService.GetDownloadInfo(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrChecklistNotFound) {
			response.NotFound(c, "checklist not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, info)
}

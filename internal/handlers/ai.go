package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jviitor13/rodocheck/internal/config"
	"github.com/jviitor13/rodocheck/internal/middleware"
	"github.com/jviitor13/rodocheck/internal/services"
	"github.com/jviitor13/rodocheck/pkg/response"
	"gorm.io/gorm"
)

type AIHandler struct {
	sessionService    *services.SessionService
	assessmentService *services.AssessmentService
	usageService      *services.AIUsageService
	configService     *services.AIConfigService
}

func NewAIHandler(db *gorm.DB, cfg *config.Config) *AIHandler {
	gateway := services.NewAIGateway(db, &cfg.AI)
	assistant := services.NewAssistantService(gateway)
	return &AIHandler{
		sessionService:    services.NewSessionService(db, assistant),
		assessmentService: services.NewAssessmentService(db, gateway),
		usageService:      services.NewAIUsageService(db),
		configService:     services.NewAIConfigService(db, gateway),
	}
}

// Chat sends one assistant query, storing both conversation turns
// POST /api/ai/chat
func (h *AIHandler) Chat(c *gin.Context) {
	var req services.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.sessionService.Chat(c.Request.Context(), &req, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNoAIServiceConfigured) {
			response.AIServiceUnavailable(c, err.Error())
			return
		}
		response.BadGateway(c, err.Error())
		return
	}
	response.Success(c, resp)
}

// ListSessions returns the user's assistant sessions
// GET /api/ai/sessions
func (h *AIHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessionService.ListSessions(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, sessions)
}

// CreateSession opens a new empty conversation
// POST /api/ai/sessions
func (h *AIHandler) CreateSession(c *gin.Context) {
	session, err := h.sessionService.CreateSession(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Created(c, session)
}

// ListMessages returns one session's conversation in order
// GET /api/ai/sessions/:session_id/messages
func (h *AIHandler) ListMessages(c *gin.Context) {
	messages, err := h.sessionService.ListMessages(c.Param("session_id"), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, messages)
}

// CloseSession marks a conversation as finished
// DELETE /api/ai/sessions/:session_id
func (h *AIHandler) CloseSession(c *gin.Context) {
	err := h.sessionService.CloseSession(c.Param("session_id"), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"closed": true})
}

// AssessDamage runs one AI damage check over a checklist image
// POST /api/ai/assess-damage
func (h *AIHandler) AssessDamage(c *gin.Context) {
	var req services.DamageAssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	assessment, err := h.assessmentService.AssessDamage(c.Request.Context(), &req, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChecklistNotFound), errors.Is(err, services.ErrVehicleNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, services.ErrNoAIServiceConfigured):
			response.AIServiceUnavailable(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}
	response.Success(c, assessment)
}

// ListDamageAssessments returns the user's damage assessments
// GET /api/ai/damage-assessments
func (h *AIHandler) ListDamageAssessments(c *gin.Context) {
	items, err := h.assessmentService.ListDamageAssessments(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, items)
}

// AnalyzeTire runs one AI tire inspection
// POST /api/ai/tire-analysis
func (h *AIHandler) AnalyzeTire(c *gin.Context) {
	var req services.TireAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	analysis, err := h.assessmentService.AnalyzeTire(c.Request.Context(), &req, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTireNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, services.ErrNoAIServiceConfigured):
			response.AIServiceUnavailable(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}
	response.Success(c, analysis)
}

// ListTireAnalyses returns the user's tire analyses
// GET /api/ai/tire-analysis
func (h *AIHandler) ListTireAnalyses(c *gin.Context) {
	items, err := h.assessmentService.ListTireAnalyses(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, items)
}

// ListUsageLogs returns the user's usage ledger
// GET /api/ai/usage-logs
func (h *AIHandler) ListUsageLogs(c *gin.Context) {
	req := services.UsageLogListRequest{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.usageService.ListLogs(middleware.GetUserID(c), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

// UsageStats aggregates the user's AI spending
// GET /api/ai/usage-stats
func (h *AIHandler) UsageStats(c *gin.Context) {
	stats, err := h.usageService.GetUserStats(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, stats)
}

// Status reports which provider answers AI requests right now
// GET /api/ai/status
func (h *AIHandler) Status(c *gin.Context) {
	response.Success(c, h.configService.Status())
}

// ListConfigurations returns configured providers with masked keys, admin only
// GET /api/ai/configurations
func (h *AIHandler) ListConfigurations(c *gin.Context) {
	configs, err := h.configService.List()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, configs)
}

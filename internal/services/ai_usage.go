package services

import (
	"time"

	"github.com/jviitor13/rodocheck/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AIUsageService exposes the usage ledger written by the AI gateway.
type AIUsageService struct {
	db *gorm.DB
}

func NewAIUsageService(db *gorm.DB) *AIUsageService {
	return &AIUsageService{db: db}
}

type UsageLogListRequest struct {
	Page     int `form:"page" binding:"min=1"`
	PageSize int `form:"page_size" binding:"min=1,max=100"`
}

type UsageLogListResponse struct {
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Items    []models.AIUsageLog `json:"items"`
}

// ListLogs returns the user's own usage rows, newest first.
func (s *AIUsageService) ListLogs(userID uint, req *UsageLogListRequest) (*UsageLogListResponse, error) {
	query := s.db.Model(&models.AIUsageLog{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.AIUsageLog
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.PageSize).Find(&items).Error; err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.AIUsageLog{}
	}
	return &UsageLogListResponse{Total: total, Page: req.Page, PageSize: req.PageSize, Items: items}, nil
}

// UserUsageStats aggregates one user's AI spending.
type UserUsageStats struct {
	TotalRequests       int64           `json:"total_requests"`
	SuccessfulRequests  int64           `json:"successful_requests"`
	SuccessRate         float64         `json:"success_rate"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	TotalTokens         int64           `json:"total_tokens"`
	TotalProcessingTime float64         `json:"total_processing_time"`
	AvgProcessingTime   float64         `json:"avg_processing_time"`
}

// GetUserStats returns aggregated usage for one user.
func (s *AIUsageService) GetUserStats(userID uint) (*UserUsageStats, error) {
	var row struct {
		TotalRequests       int64
		SuccessfulRequests  int64
		TotalCost           decimal.Decimal
		TotalTokens         int64
		TotalProcessingTime float64
	}
	err := s.db.Model(&models.AIUsageLog{}).
		Where("user_id = ?", userID).
		Select(
			"COUNT(*) as total_requests, " +
				"COALESCE(SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END), 0) as successful_requests, " +
				"COALESCE(SUM(cost), 0) as total_cost, " +
				"COALESCE(SUM(input_tokens + output_tokens), 0) as total_tokens, " +
				"COALESCE(SUM(processing_time), 0) as total_processing_time",
		).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := UserUsageStats{
		TotalRequests:       row.TotalRequests,
		SuccessfulRequests:  row.SuccessfulRequests,
		TotalCost:           row.TotalCost,
		TotalTokens:         row.TotalTokens,
		TotalProcessingTime: row.TotalProcessingTime,
	}
	if stats.TotalRequests > 0 {
		stats.SuccessRate = float64(stats.SuccessfulRequests) / float64(stats.TotalRequests) * 100
		stats.AvgProcessingTime = stats.TotalProcessingTime / float64(stats.TotalRequests)
	}
	return &stats, nil
}

// CleanupBefore deletes usage rows older than the given time. Used by the
// retention job.
func (s *AIUsageService) CleanupBefore(before time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", before).Delete(&models.AIUsageLog{})
	return result.RowsAffected, result.Error
}

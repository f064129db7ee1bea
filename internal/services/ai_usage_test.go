package services

import (
	"testing"
	"time"

	"github.com/jviitor13/rodocheck/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedUsageRows(t *testing.T, db *gorm.DB) {
	t.Helper()
	rows := []models.AIUsageLog{
		{UserID: 1, ServiceName: "openai", ModelName: "gpt-3.5-turbo", InputTokens: 100, OutputTokens: 50, Cost: decimal.NewFromFloat(0.2), ProcessingTime: 1.5, Success: true},
		{UserID: 1, ServiceName: "openai", ModelName: "gpt-3.5-turbo", InputTokens: 200, OutputTokens: 100, Cost: decimal.NewFromFloat(0.4), ProcessingTime: 2.5, Success: true},
		{UserID: 1, ServiceName: "openai", ModelName: "gpt-3.5-turbo", Success: false, ErrorMessage: "timeout"},
		{UserID: 2, ServiceName: "google_ai", ModelName: "gemini-pro", InputTokens: 50, OutputTokens: 25, Cost: decimal.NewFromFloat(0.1), ProcessingTime: 1, Success: true},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed usage row: %v", err)
		}
	}
}

func TestUsageListLogs_ScopedAndPaginated(t *testing.T) {
	db := setupTestDB(t)
	seedUsageRows(t, db)
	svc := NewAIUsageService(db)

	resp, err := svc.ListLogs(1, &UsageLogListRequest{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("Total = %d, want 3 rows for user 1", resp.Total)
	}
	if len(resp.Items) != 2 {
		t.Errorf("Items = %d, want page of 2", len(resp.Items))
	}
	for _, item := range resp.Items {
		if item.UserID != 1 {
			t.Errorf("leaked row for user %d", item.UserID)
		}
	}
}

func TestUsageGetUserStats(t *testing.T) {
	db := setupTestDB(t)
	seedUsageRows(t, db)
	svc := NewAIUsageService(db)

	stats, err := svc.GetUserStats(1)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if stats.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", stats.TotalRequests)
	}
	if stats.SuccessfulRequests != 2 {
		t.Errorf("SuccessfulRequests = %d, want 2", stats.SuccessfulRequests)
	}
	if want := 2.0 / 3.0 * 100; stats.SuccessRate < want-0.01 || stats.SuccessRate > want+0.01 {
		t.Errorf("SuccessRate = %v, want ~%v", stats.SuccessRate, want)
	}
	if want := decimal.NewFromFloat(0.6); !stats.TotalCost.Equal(want) {
		t.Errorf("TotalCost = %s, want %s", stats.TotalCost, want)
	}
	if stats.TotalTokens != 450 {
		t.Errorf("TotalTokens = %d, want 450", stats.TotalTokens)
	}
	if stats.TotalProcessingTime != 4 {
		t.Errorf("TotalProcessingTime = %v, want 4", stats.TotalProcessingTime)
	}
}

func TestUsageGetUserStats_Empty(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAIUsageService(db)

	stats, err := svc.GetUserStats(9)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if stats.TotalRequests != 0 || stats.SuccessRate != 0 {
		t.Errorf("stats = %+v, want zeros", stats)
	}
	if !stats.TotalCost.IsZero() {
		t.Errorf("TotalCost = %s, want 0", stats.TotalCost)
	}
}

func TestUsageCleanupBefore(t *testing.T) {
	db := setupTestDB(t)
	old := models.AIUsageLog{UserID: 1, ServiceName: "openai", Success: true}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	db.Model(&old).Update("created_at", time.Now().AddDate(0, 0, -120))

	fresh := models.AIUsageLog{UserID: 1, ServiceName: "openai", Success: true}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewAIUsageService(db)
	deleted, err := svc.CleanupBefore(time.Now().AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("CleanupBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if n := countUsageRows(t, db); n != 1 {
		t.Errorf("remaining rows = %d, want 1", n)
	}
}

func TestRetentionRunOnce(t *testing.T) {
	db := setupTestDB(t)
	old := models.AIUsageLog{UserID: 1, ServiceName: "openai", Success: true}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	db.Model(&old).Update("created_at", time.Now().AddDate(0, 0, -45))

	retention := NewRetentionService(NewAIUsageService(db), 30)
	retention.RunOnce()

	if n := countUsageRows(t, db); n != 0 {
		t.Errorf("rows after retention run = %d, want 0", n)
	}
}

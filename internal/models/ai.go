package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AssessmentStatus is the lifecycle state of an AI assessment. Records move
// processing -> completed or processing -> failed exactly once and never
// regress.
type AssessmentStatus string

const (
	StatusPending    AssessmentStatus = "pending"
	StatusProcessing AssessmentStatus = "processing"
	StatusCompleted  AssessmentStatus = "completed"
	StatusFailed     AssessmentStatus = "failed"
)

// Valid reports whether s is a known status value.
func (s AssessmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s AssessmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Transition validates a status move. Allowed: pending->processing,
// processing->completed, processing->failed.
func (s AssessmentStatus) Transition(next AssessmentStatus) (AssessmentStatus, error) {
	if !next.Valid() {
		return s, fmt.Errorf("unknown assessment status %q", next)
	}
	switch {
	case s == StatusPending && next == StatusProcessing:
		return next, nil
	case s == StatusProcessing && next.Terminal():
		return next, nil
	}
	return s, fmt.Errorf("invalid assessment transition %s -> %s", s, next)
}

// AssistantSession groups an ordered conversation with the AI assistant.
type AssistantSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"uniqueIndex;size:100;not null" json:"session_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssistantMessage is one turn in an assistant conversation. Append-only,
// ordered by creation time.
type AssistantMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"index;not null" json:"session_id"`
	Role      string    `gorm:"size:20;not null" json:"role"` // user, assistant, system
	Content   string    `gorm:"type:text" json:"content"`
	Metadata  string    `gorm:"type:text" json:"metadata"` // JSON
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// DamageAssessment is one AI damage check against a checklist image.
type DamageAssessment struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	ChecklistID       string              `gorm:"index;size:100;not null" json:"checklist_id"`
	Checklist         *CompletedChecklist `gorm:"foreignKey:ChecklistID" json:"-"`
	VehicleID         uint                `gorm:"index;not null" json:"vehicle_id"`
	Vehicle           *Vehicle            `gorm:"foreignKey:VehicleID" json:"-"`
	ImageURL          string              `gorm:"size:500" json:"image_url"`
	ImageBase64       string              `gorm:"type:text" json:"-"`
	DamageDetected    bool                `gorm:"default:false" json:"damage_detected"`
	DamageDescription string              `gorm:"type:text" json:"damage_description"`
	ConfidenceScore   *float64            `json:"confidence_score"` // 0..1
	Status            AssessmentStatus    `gorm:"size:20;default:pending" json:"status"`
	AIModelUsed       string              `gorm:"size:100" json:"ai_model_used"`
	ProcessingTime    float64             `json:"processing_time"`  // seconds
	CreatedAt         time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// TireAnalysis is one AI tire inspection.
type TireAnalysis struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	TireID            uint             `gorm:"index;not null" json:"tire_id"`
	Tire              *Tire            `gorm:"foreignKey:TireID" json:"-"`
	ImageURL          string           `gorm:"size:500" json:"image_url"`
	ImageBase64       string           `gorm:"type:text" json:"-"`
	WearLevel         string           `gorm:"size:50" json:"wear_level"` // Good, Moderate, Severe
	WearPercentage    *float64         `json:"wear_percentage"`           // 0..100
	DamageDetected    bool             `gorm:"default:false" json:"damage_detected"`
	DamageDescription string           `gorm:"type:text" json:"damage_description"`
	Recommendation    string           `gorm:"type:text" json:"recommendation"`
	ConfidenceScore   *float64         `json:"confidence_score"` // 0..1
	Status            AssessmentStatus `gorm:"size:20;default:pending" json:"status"`
	AIModelUsed       string           `gorm:"size:100" json:"ai_model_used"`
	ProcessingTime    float64          `json:"processing_time"` // seconds
	CreatedAt         time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// SetStatus moves the assessment through the guarded transition; invalid
// moves leave the status untouched.
func (a *DamageAssessment) SetStatus(next AssessmentStatus) error {
	status, err := a.Status.Transition(next)
	if err != nil {
		return err
	}
	a.Status = status
	return nil
}

// SetStatus moves the analysis through the guarded transition; invalid
// moves leave the status untouched.
func (a *TireAnalysis) SetStatus(next AssessmentStatus) error {
	status, err := a.Status.Transition(next)
	if err != nil {
		return err
	}
	a.Status = status
	return nil
}

// AIConfiguration is an admin-visible record of a configured AI service.
// API keys are stored masked; the live keys come from the process config.
type AIConfiguration struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ServiceName string    `gorm:"uniqueIndex;size:100;not null" json:"service_name"`
	APIKeyMask  string    `gorm:"size:50" json:"api_key_mask"`
	ModelName   string    `gorm:"size:100" json:"model_name"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	Settings    string    `gorm:"type:text" json:"settings"` // JSON
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AIUsageLog accounts for exactly one outbound AI call attempt. Rows are
// written once and never mutated; cost is zero on failure.
type AIUsageLog struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index;not null" json:"user_id"`
	ServiceName    string          `gorm:"size:100" json:"service_name"`
	ModelName      string          `gorm:"size:100" json:"model_name"`
	InputTokens    int             `gorm:"default:0" json:"input_tokens"`
	OutputTokens   int             `gorm:"default:0" json:"output_tokens"`
	Cost           decimal.Decimal `gorm:"type:decimal(10,4)" json:"cost"`
	ProcessingTime float64         `gorm:"default:0" json:"processing_time"` // seconds
	Success        bool            `gorm:"default:true" json:"success"`
	ErrorMessage   string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
}

// MaskAPIKey produces a display-safe version of an API key.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

func (AssistantSession) TableName() string { return "ai_assistant_sessions" }
func (AssistantMessage) TableName() string { return "ai_assistant_messages" }
func (DamageAssessment) TableName() string { return "vehicle_damage_assessments" }
func (TireAnalysis) TableName() string     { return "tire_analyses" }
func (AIConfiguration) TableName() string  { return "ai_configurations" }
func (AIUsageLog) TableName() string       { return "ai_usage_logs" }

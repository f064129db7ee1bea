package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jviitor13/rodocheck/internal/models"
	"github.com/jviitor13/rodocheck/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrChecklistNotFound = errors.New("checklist not found")
	ErrVehicleNotFound   = errors.New("vehicle not found")
	ErrTireNotFound      = errors.New("tire not found")
)

type AssessmentService struct {
	db      *gorm.DB
	gateway *AIGateway
}

func NewAssessmentService(db *gorm.DB, gateway *AIGateway) *AssessmentService {
	return &AssessmentService{db: db, gateway: gateway}
}

type DamageAssessRequest struct {
	ChecklistID string `json:"checklist_id" binding:"required"`
	VehicleID   uint   `json:"vehicle_id" binding:"required"`
	ImageURL    string `json:"image_url"`
	ImageBase64 string `json:"image_base64" binding:"required"`
}

type TireAnalyzeRequest struct {
	TireID      uint   `json:"tire_id" binding:"required"`
	ImageURL    string `json:"image_url"`
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// damageReply is the JSON shape the model is asked to produce.
type damageReply struct {
	DamageDetected    bool   `json:"damageDetected"`
	DamageDescription string `json:"damageDescription"`
}

type tireReply struct {
	DamageDetected    bool     `json:"damageDetected"`
	DamageDescription string   `json:"damageDescription"`
	WearLevel         string   `json:"wearLevel"`
	WearPercentage    *float64 `json:"wearPercentage"`
	Recommendation    string   `json:"recommendation"`
}

// AssessDamage runs one AI damage check against a checklist image. The
// record always ends in a terminal status: completed when the provider
// answered (even if the answer was not valid JSON), failed otherwise.
func (s *AssessmentService) AssessDamage(ctx context.Context, req *DamageAssessRequest, userID uint) (*models.DamageAssessment, error) {
	var checklist models.CompletedChecklist
	if err := s.db.First(&checklist, "id = ?", req.ChecklistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChecklistNotFound
		}
		return nil, err
	}
	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, req.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	assessment := models.DamageAssessment{
		ChecklistID: req.ChecklistID,
		VehicleID:   req.VehicleID,
		ImageURL:    req.ImageURL,
		ImageBase64: req.ImageBase64,
		Status:      models.StatusPending,
	}
	if err := assessment.SetStatus(models.StatusProcessing); err != nil {
		return nil, err
	}
	if err := s.db.Create(&assessment).Error; err != nil {
		return nil, err
	}

	prompt := buildDamagePrompt(req.ChecklistID, req.VehicleID)
	result, err := s.gateway.GenerateFromImage(ctx, req.ImageBase64, prompt, userID)
	if err != nil {
		if stErr := assessment.SetStatus(models.StatusFailed); stErr != nil {
			logger.Error().Err(stErr).Uint("assessment_id", assessment.ID).Msg("invalid damage assessment transition")
		} else if dbErr := s.db.Save(&assessment).Error; dbErr != nil {
			logger.Error().Err(dbErr).Uint("assessment_id", assessment.ID).Msg("failed to mark damage assessment failed")
		}
		return nil, err
	}
	if !result.Success {
		if err := assessment.SetStatus(models.StatusFailed); err != nil {
			return nil, err
		}
		assessment.ProcessingTime = result.ProcessingTime
		assessment.AIModelUsed = result.ModelName
		if err := s.db.Save(&assessment).Error; err != nil {
			return nil, err
		}
		return &assessment, nil
	}

	parsed := parseDamageReply(result.Text)
	assessment.DamageDetected = parsed.DamageDetected
	assessment.DamageDescription = parsed.DamageDescription
	if err := assessment.SetStatus(models.StatusCompleted); err != nil {
		return nil, err
	}
	assessment.ProcessingTime = result.ProcessingTime
	assessment.AIModelUsed = result.ModelName
	if err := s.db.Save(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

// AnalyzeTire runs one AI tire inspection, same lifecycle as AssessDamage.
func (s *AssessmentService) AnalyzeTire(ctx context.Context, req *TireAnalyzeRequest, userID uint) (*models.TireAnalysis, error) {
	var tire models.Tire
	if err := s.db.First(&tire, req.TireID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTireNotFound
		}
		return nil, err
	}

	analysis := models.TireAnalysis{
		TireID:      req.TireID,
		ImageURL:    req.ImageURL,
		ImageBase64: req.ImageBase64,
		Status:      models.StatusPending,
	}
	if err := analysis.SetStatus(models.StatusProcessing); err != nil {
		return nil, err
	}
	if err := s.db.Create(&analysis).Error; err != nil {
		return nil, err
	}

	prompt := buildTirePrompt(&tire)
	result, err := s.gateway.GenerateFromImage(ctx, req.ImageBase64, prompt, userID)
	if err != nil {
		if stErr := analysis.SetStatus(models.StatusFailed); stErr != nil {
			logger.Error().Err(stErr).Uint("analysis_id", analysis.ID).Msg("invalid tire analysis transition")
		} else if dbErr := s.db.Save(&analysis).Error; dbErr != nil {
			logger.Error().Err(dbErr).Uint("analysis_id", analysis.ID).Msg("failed to mark tire analysis failed")
		}
		return nil, err
	}
	if !result.Success {
		if err := analysis.SetStatus(models.StatusFailed); err != nil {
			return nil, err
		}
		analysis.ProcessingTime = result.ProcessingTime
		analysis.AIModelUsed = result.ModelName
		if err := s.db.Save(&analysis).Error; err != nil {
			return nil, err
		}
		return &analysis, nil
	}

	parsed := parseTireReply(result.Text)
	analysis.DamageDetected = parsed.DamageDetected
	analysis.DamageDescription = parsed.DamageDescription
	analysis.WearLevel = parsed.WearLevel
	analysis.WearPercentage = parsed.WearPercentage
	analysis.Recommendation = parsed.Recommendation
	if err := analysis.SetStatus(models.StatusCompleted); err != nil {
		return nil, err
	}
	analysis.ProcessingTime = result.ProcessingTime
	analysis.AIModelUsed = result.ModelName
	if err := s.db.Save(&analysis).Error; err != nil {
		return nil, err
	}
	return &analysis, nil
}

// ListDamageAssessments returns assessments for checklists created by userID,
// newest first.
func (s *AssessmentService) ListDamageAssessments(userID uint) ([]models.DamageAssessment, error) {
	var items []models.DamageAssessment
	err := s.db.
		Joins("JOIN completed_checklists ON completed_checklists.id = vehicle_damage_assessments.checklist_id").
		Where("completed_checklists.created_by = ?", userID).
		Order("vehicle_damage_assessments.created_at DESC").
		Find(&items).Error
	return items, err
}

// ListTireAnalyses returns analyses for tires created by userID, newest first.
func (s *AssessmentService) ListTireAnalyses(userID uint) ([]models.TireAnalysis, error) {
	var items []models.TireAnalysis
	err := s.db.
		Joins("JOIN tires ON tires.id = tire_analyses.tire_id").
		Where("tires.created_by = ?", userID).
		Order("tire_analyses.created_at DESC").
		Find(&items).Error
	return items, err
}

func buildDamagePrompt(checklistID string, vehicleID uint) string {
	return fmt.Sprintf(`Analise esta imagem de veículo para detectar danos não registrados anteriormente.
ID do Checklist: %s
ID do Veículo: %d

Procure por:
- Arranhões ou amassados
- Rachaduras no vidro
- Danos na pintura
- Peças soltas ou faltando
- Sinais de colisão

Responda em JSON com:
- damageDetected: true/false
- damageDescription: descrição dos danos encontrados (se houver)
`, checklistID, vehicleID)
}

func buildTirePrompt(tire *models.Tire) string {
	return fmt.Sprintf(`Analise esta imagem de pneu e avalie sua condição.
Número de série: %s
Marca: %s
Modelo: %s

Procure por:
- Desgaste irregular ou excessivo da banda de rodagem
- Bolhas, cortes ou rachaduras na lateral
- Objetos encravados
- Sinais de desalinhamento

Responda em JSON com:
- damageDetected: true/false
- damageDescription: descrição dos danos encontrados (se houver)
- wearLevel: Good, Moderate ou Severe
- wearPercentage: percentual estimado de desgaste (0 a 100)
- recommendation: recomendação de manutenção
`, tire.SerialNumber, tire.Brand, tire.Model)
}

// parseDamageReply decodes the model's JSON answer. Models sometimes reply
// in prose instead, so a substring heuristic keeps the assessment usable.
func parseDamageReply(text string) damageReply {
	var reply damageReply
	if err := json.Unmarshal([]byte(extractJSON(text)), &reply); err == nil {
		return reply
	}
	lower := strings.ToLower(text)
	detected := strings.Contains(lower, "danos") || strings.Contains(lower, "damage")
	reply = damageReply{DamageDetected: detected}
	if detected {
		reply.DamageDescription = text
	}
	return reply
}

func parseTireReply(text string) tireReply {
	var reply tireReply
	if err := json.Unmarshal([]byte(extractJSON(text)), &reply); err == nil {
		return reply
	}
	lower := strings.ToLower(text)
	detected := strings.Contains(lower, "danos") || strings.Contains(lower, "damage")
	reply = tireReply{DamageDetected: detected}
	if detected {
		reply.DamageDescription = text
	}
	return reply
}

// extractJSON strips markdown code fences the vision models like to wrap
// their JSON in.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	return trimmed
}

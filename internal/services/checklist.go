package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jviitor13/rodocheck/internal/models"
	"github.com/jviitor13/rodocheck/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound   = errors.New("checklist template not found")
	ErrInvalidFinalStatus = errors.New("final status must be one of pending, approved, rejected")
	ErrPDFNotAvailable    = errors.New("checklist PDF could not be generated")
)

var finalStatuses = map[string]bool{
	"pending":  true,
	"approved": true,
	"rejected": true,
}

type ChecklistService struct {
	db        *gorm.DB
	report    *ReportService
	mediaRoot string
}

func NewChecklistService(db *gorm.DB, report *ReportService, mediaRoot string) *ChecklistService {
	return &ChecklistService{db: db, report: report, mediaRoot: mediaRoot}
}

type CreateTemplateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Items       string `json:"items"` // JSON array of item texts
}

type UpdateTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Items       string `json:"items"`
	IsActive    *bool  `json:"is_active"`
}

// ListTemplates returns the user's active templates.
func (s *ChecklistService) ListTemplates(userID uint) ([]models.ChecklistTemplate, error) {
	var templates []models.ChecklistTemplate
	err := s.db.Where("created_by = ?", userID).Order("created_at DESC").Find(&templates).Error
	if templates == nil {
		templates = []models.ChecklistTemplate{}
	}
	return templates, err
}

func (s *ChecklistService) GetTemplate(id, userID uint) (*models.ChecklistTemplate, error) {
	var template models.ChecklistTemplate
	err := s.db.Where("id = ? AND created_by = ?", id, userID).First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (s *ChecklistService) CreateTemplate(req *CreateTemplateRequest, userID uint) (*models.ChecklistTemplate, error) {
	template := models.ChecklistTemplate{
		Name:        req.Name,
		Description: req.Description,
		Items:       req.Items,
		IsActive:    true,
		CreatedBy:   userID,
	}
	if err := s.db.Create(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (s *ChecklistService) UpdateTemplate(id, userID uint, req *UpdateTemplateRequest) (*models.ChecklistTemplate, error) {
	template, err := s.GetTemplate(id, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		template.Name = req.Name
	}
	if req.Description != "" {
		template.Description = req.Description
	}
	if req.Items != "" {
		template.Items = req.Items
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	if err := s.db.Save(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

func (s *ChecklistService) DeleteTemplate(id, userID uint) error {
	template, err := s.GetTemplate(id, userID)
	if err != nil {
		return err
	}
	return s.db.Delete(template).Error
}

type CreateChecklistRequest struct {
	ID                  string `json:"id"`
	VehicleID           uint   `json:"vehicle_id" binding:"required"`
	TemplateID          *uint  `json:"template_id"`
	FinalStatus         string `json:"final_status"`
	GeneralObservations string `json:"general_observations"`
	Questions           string `json:"questions"`
	VehicleImages       string `json:"vehicle_images"`
	Signatures          string `json:"signatures"`
}

type ChecklistListRequest struct {
	Page      int    `form:"page" binding:"min=1"`
	PageSize  int    `form:"page_size" binding:"min=1,max=100"`
	VehicleID uint   `form:"vehicle_id"`
	Status    string `form:"final_status"`
}

type ChecklistListResponse struct {
	Total    int64                       `json:"total"`
	Page     int                         `json:"page"`
	PageSize int                         `json:"page_size"`
	Items    []models.CompletedChecklist `json:"items"`
}

func (s *ChecklistService) List(userID uint, req *ChecklistListRequest) (*ChecklistListResponse, error) {
	query := s.db.Model(&models.CompletedChecklist{}).Where("created_by = ?", userID)
	if req.VehicleID != 0 {
		query = query.Where("vehicle_id = ?", req.VehicleID)
	}
	if req.Status != "" {
		query = query.Where("final_status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.CompletedChecklist
	offset := (req.Page - 1) * req.PageSize
	err := query.Preload("Vehicle").Order("created_at DESC").Offset(offset).Limit(req.PageSize).Find(&items).Error
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CompletedChecklist{}
	}
	return &ChecklistListResponse{Total: total, Page: req.Page, PageSize: req.PageSize, Items: items}, nil
}

func (s *ChecklistService) Get(id string, userID uint) (*models.CompletedChecklist, error) {
	var checklist models.CompletedChecklist
	err := s.db.Preload("Vehicle").Preload("Creator").Preload("Template").
		Where("id = ? AND created_by = ?", id, userID).First(&checklist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChecklistNotFound
	}
	if err != nil {
		return nil, err
	}
	return &checklist, nil
}

// Create stores the checklist and generates its PDF best-effort; a failed
// PDF render never fails the create.
func (s *ChecklistService) Create(req *CreateChecklistRequest, userID uint) (*models.CompletedChecklist, error) {
	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, req.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if req.FinalStatus != "" && !finalStatuses[req.FinalStatus] {
		return nil, ErrInvalidFinalStatus
	}
	if req.TemplateID != nil {
		var template models.ChecklistTemplate
		if err := s.db.First(&template, *req.TemplateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTemplateNotFound
			}
			return nil, err
		}
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}
	status := req.FinalStatus
	if status == "" {
		status = "pending"
	}

	checklist := models.CompletedChecklist{
		ID:                  id,
		VehicleID:           req.VehicleID,
		TemplateID:          req.TemplateID,
		CreatedBy:           userID,
		FinalStatus:         status,
		GeneralObservations: req.GeneralObservations,
		Questions:           req.Questions,
		VehicleImages:       req.VehicleImages,
		Signatures:          req.Signatures,
	}
	if err := s.db.Create(&checklist).Error; err != nil {
		return nil, err
	}

	if err := s.generatePDF(&checklist); err != nil {
		logger.Warn().Err(err).Str("checklist_id", checklist.ID).Msg("checklist pdf generation failed")
	}
	return &checklist, nil
}

type UpdateChecklistRequest struct {
	FinalStatus         string `json:"final_status"`
	GeneralObservations string `json:"general_observations"`
	Questions           string `json:"questions"`
	VehicleImages       string `json:"vehicle_images"`
	Signatures          string `json:"signatures"`
}

func (s *ChecklistService) Update(id string, userID uint, req *UpdateChecklistRequest) (*models.CompletedChecklist, error) {
	checklist, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}
	if req.FinalStatus != "" {
		if !finalStatuses[req.FinalStatus] {
			return nil, ErrInvalidFinalStatus
		}
		checklist.FinalStatus = req.FinalStatus
	}
	if req.GeneralObservations != "" {
		checklist.GeneralObservations = req.GeneralObservations
	}
	if req.Questions != "" {
		checklist.Questions = req.Questions
	}
	if req.VehicleImages != "" {
		checklist.VehicleImages = req.VehicleImages
	}
	if req.Signatures != "" {
		checklist.Signatures = req.Signatures
	}

	// Content changed, force a fresh render on next download.
	checklist.IsPDFGenerated = false
	if err := s.db.Save(checklist).Error; err != nil {
		return nil, err
	}
	return checklist, nil
}

func (s *ChecklistService) Delete(id string, userID uint) error {
	checklist, err := s.Get(id, userID)
	if err != nil {
		return err
	}
	return s.db.Delete(checklist).Error
}

// Download returns the PDF path and filename, regenerating the file when
// absent. The download counter only moves once the PDF is known to exist.
func (s *ChecklistService) Download(id string, userID uint) (path, filename string, err error) {
	checklist, err := s.Get(id, userID)
	if err != nil {
		return "", "", err
	}

	if !checklist.IsPDFGenerated || !s.pdfExists(checklist.PDFPath) {
		if err := s.generatePDF(checklist); err != nil {
			return "", "", ErrPDFNotAvailable
		}
	}

	checklist.DownloadCount++
	if err := s.db.Model(checklist).Update("download_count", checklist.DownloadCount).Error; err != nil {
		return "", "", err
	}
	return filepath.Join(s.mediaRoot, checklist.PDFPath), fmt.Sprintf("checklist_%s.pdf", checklist.ID), nil
}

// DownloadInfo reports PDF availability without touching the counter.
type DownloadInfo struct {
	ChecklistID    string `json:"checklist_id"`
	IsPDFGenerated bool   `json:"is_pdf_generated"`
	DownloadCount  int    `json:"download_count"`
	PDFPath        string `json:"pdf_path,omitempty"`
}

func (s *ChecklistService) GetDownloadInfo(id string, userID uint) (*DownloadInfo, error) {
	checklist, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}
	return &DownloadInfo{
		ChecklistID:    checklist.ID,
		IsPDFGenerated: checklist.IsPDFGenerated,
		DownloadCount:  checklist.DownloadCount,
		PDFPath:        checklist.PDFPath,
	}, nil
}

func (s *ChecklistService) pdfExists(relPath string) bool {
	if relPath == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.mediaRoot, relPath))
	return err == nil
}

func (s *ChecklistService) generatePDF(checklist *models.CompletedChecklist) error {
	vehicle := checklist.Vehicle
	if vehicle == nil {
		vehicle = &models.Vehicle{}
		if err := s.db.First(vehicle, checklist.VehicleID).Error; err != nil {
			return err
		}
	}
	creator := checklist.Creator
	if creator == nil {
		creator = &models.User{}
		if err := s.db.First(creator, checklist.CreatedBy).Error; err != nil {
			return err
		}
	}

	content, err := s.report.Render(checklist, vehicle, creator)
	if err != nil {
		return err
	}

	relPath := filepath.Join("checklists", fmt.Sprintf("checklist_%s.pdf", checklist.ID))
	fullPath := filepath.Join(s.mediaRoot, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return err
	}

	checklist.PDFPath = relPath
	checklist.IsPDFGenerated = true
	return s.db.Model(checklist).Updates(map[string]any{
		"pdf_path":         relPath,
		"is_pdf_generated": true,
	}).Error
}

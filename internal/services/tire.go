package services

import (
	"errors"
	"strings"
	"time"

	"github.com/jviitor13/rodocheck/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tires below this tread depth or above this mileage need attention.
const (
	attentionTreadDepth = 3.0
	attentionMileage    = 50000
)

var (
	ErrInvalidTireStatus   = errors.New("tire status must be one of new, in_use, in_stock, maintenance, scrapped")
	ErrInvalidTirePosition = errors.New("tire position must be one of front_left, front_right, rear_left, rear_right, spare")
	ErrSerialTaken         = errors.New("a tire with this serial number already exists")
)

var tireStatuses = map[string]bool{
	"new":         true,
	"in_use":      true,
	"in_stock":    true,
	"maintenance": true,
	"scrapped":    true,
}

var tirePositions = map[string]bool{
	"front_left":  true,
	"front_right": true,
	"rear_left":   true,
	"rear_right":  true,
	"spare":       true,
}

type TireService struct {
	db *gorm.DB
}

func NewTireService(db *gorm.DB) *TireService {
	return &TireService{db: db}
}

type TireListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	Status   string `form:"status"`
	Brand    string `form:"brand"`
}

type TireListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.Tire `json:"items"`
}

type CreateTireRequest struct {
	SerialNumber     string           `json:"serial_number" binding:"required"`
	Brand            string           `json:"brand" binding:"required"`
	Model            string           `json:"model" binding:"required"`
	Size             string           `json:"size"`
	Status           string           `json:"status"`
	Position         string           `json:"position"`
	VehicleID        *uint            `json:"vehicle_id"`
	PurchaseDate     *time.Time       `json:"purchase_date"`
	InstallationDate *time.Time       `json:"installation_date"`
	TreadDepth       *float64         `json:"tread_depth"`
	Mileage          int              `json:"mileage"`
	Price            *decimal.Decimal `json:"price"`
}

type UpdateTireRequest struct {
	Brand            string           `json:"brand"`
	Model            string           `json:"model"`
	Size             string           `json:"size"`
	Status           string           `json:"status"`
	Position         string           `json:"position"`
	VehicleID        *uint            `json:"vehicle_id"`
	PurchaseDate     *time.Time       `json:"purchase_date"`
	InstallationDate *time.Time       `json:"installation_date"`
	TreadDepth       *float64         `json:"tread_depth"`
	Mileage          *int             `json:"mileage"`
	Price            *decimal.Decimal `json:"price"`
	IsActive         *bool            `json:"is_active"`
}

func (s *TireService) List(userID uint, req *TireListRequest) (*TireListResponse, error) {
	query := s.db.Model(&models.Tire{}).Where("created_by = ?", userID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Brand != "" {
		query = query.Where("brand LIKE ?", "%"+req.Brand+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Tire
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.PageSize).Find(&items).Error; err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Tire{}
	}
	return &TireListResponse{Total: total, Page: req.Page, PageSize: req.PageSize, Items: items}, nil
}

func (s *TireService) Get(id, userID uint) (*models.Tire, error) {
	var tire models.Tire
	err := s.db.Where("id = ? AND created_by = ?", id, userID).First(&tire).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTireNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tire, nil
}

func (s *TireService) Create(req *CreateTireRequest, userID uint) (*models.Tire, error) {
	serial := strings.TrimSpace(req.SerialNumber)
	if req.Status != "" && !tireStatuses[req.Status] {
		return nil, ErrInvalidTireStatus
	}
	if req.Position != "" && !tirePositions[req.Position] {
		return nil, ErrInvalidTirePosition
	}

	var count int64
	if err := s.db.Model(&models.Tire{}).Where("serial_number = ?", serial).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSerialTaken
	}

	status := req.Status
	if status == "" {
		status = "new"
	}

	tire := models.Tire{
		SerialNumber:     serial,
		Brand:            req.Brand,
		Model:            req.Model,
		Size:             req.Size,
		Status:           status,
		Position:         req.Position,
		VehicleID:        req.VehicleID,
		PurchaseDate:     req.PurchaseDate,
		InstallationDate: req.InstallationDate,
		TreadDepth:       req.TreadDepth,
		Mileage:          req.Mileage,
		Price:            req.Price,
		IsActive:         true,
		CreatedBy:        userID,
	}
	if err := s.db.Create(&tire).Error; err != nil {
		return nil, err
	}
	return &tire, nil
}

func (s *TireService) Update(id, userID uint, req *UpdateTireRequest) (*models.Tire, error) {
	tire, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		if !tireStatuses[req.Status] {
			return nil, ErrInvalidTireStatus
		}
		tire.Status = req.Status
	}
	if req.Position != "" {
		if !tirePositions[req.Position] {
			return nil, ErrInvalidTirePosition
		}
		tire.Position = req.Position
	}
	if req.Brand != "" {
		tire.Brand = req.Brand
	}
	if req.Model != "" {
		tire.Model = req.Model
	}
	if req.Size != "" {
		tire.Size = req.Size
	}
	if req.VehicleID != nil {
		tire.VehicleID = req.VehicleID
	}
	if req.PurchaseDate != nil {
		tire.PurchaseDate = req.PurchaseDate
	}
	if req.InstallationDate != nil {
		tire.InstallationDate = req.InstallationDate
	}
	if req.TreadDepth != nil {
		tire.TreadDepth = req.TreadDepth
	}
	if req.Mileage != nil {
		tire.Mileage = *req.Mileage
	}
	if req.Price != nil {
		tire.Price = req.Price
	}
	if req.IsActive != nil {
		tire.IsActive = *req.IsActive
	}

	if err := s.db.Save(tire).Error; err != nil {
		return nil, err
	}
	return tire, nil
}

func (s *TireService) Delete(id, userID uint) error {
	tire, err := s.Get(id, userID)
	if err != nil {
		return err
	}
	return s.db.Delete(tire).Error
}

// TireStats summarizes the user's tire fleet.
type TireStats struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"by_status"`
	ByBrand        map[string]int64 `json:"by_brand"`
	AverageMileage float64          `json:"average_mileage"`
	NeedAttention  int64            `json:"need_attention"`
}

// GetStats aggregates counts by status and brand, the average mileage and
// the number of tires needing attention (worn tread or high mileage).
func (s *TireService) GetStats(userID uint) (*TireStats, error) {
	stats := &TireStats{
		ByStatus: map[string]int64{},
		ByBrand:  map[string]int64{},
	}

	base := s.db.Model(&models.Tire{}).Where("created_by = ?", userID)
	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Label string
		Count int64
	}
	var byStatus []bucket
	if err := base.Session(&gorm.Session{}).Select("status as label, COUNT(*) as count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Label] = b.Count
	}

	var byBrand []bucket
	if err := base.Session(&gorm.Session{}).Select("brand as label, COUNT(*) as count").Group("brand").Scan(&byBrand).Error; err != nil {
		return nil, err
	}
	for _, b := range byBrand {
		stats.ByBrand[b.Label] = b.Count
	}

	var avg struct{ Avg float64 }
	if err := base.Session(&gorm.Session{}).Select("COALESCE(AVG(mileage), 0) as avg").Scan(&avg).Error; err != nil {
		return nil, err
	}
	stats.AverageMileage = avg.Avg

	err := base.Session(&gorm.Session{}).
		Where("tread_depth < ? OR mileage > ?", attentionTreadDepth, attentionMileage).
		Count(&stats.NeedAttention).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

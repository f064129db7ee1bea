package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jviitor13/rodocheck/internal/models"
	"gorm.io/gorm"
)

// plateRegexp accepts the old Brazilian format (ABC1234) and the Mercosul
// format (ABC1D23).
var plateRegexp = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$|^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)

var (
	ErrInvalidPlate       = errors.New("invalid plate format, expected ABC1234 or ABC1D23")
	ErrInvalidYear        = errors.New("year must be between 1900 and 2030")
	ErrInvalidVehicleType = errors.New("vehicle type must be one of truck, trailer, bus, van")
	ErrPlateTaken         = errors.New("a vehicle with this plate already exists")
)

var vehicleTypes = map[string]bool{
	"truck":   true,
	"trailer": true,
	"bus":     true,
	"van":     true,
}

type VehicleService struct {
	db *gorm.DB
}

func NewVehicleService(db *gorm.DB) *VehicleService {
	return &VehicleService{db: db}
}

type VehicleListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	Plate    string `form:"plate"`
	Type     string `form:"vehicle_type"`
}

type VehicleListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Vehicle `json:"items"`
}

type CreateVehicleRequest struct {
	Plate         string `json:"plate" binding:"required"`
	Model         string `json:"model" binding:"required"`
	Brand         string `json:"brand" binding:"required"`
	Year          int    `json:"year" binding:"required"`
	VehicleType   string `json:"vehicle_type" binding:"required"`
	Color         string `json:"color"`
	ChassisNumber string `json:"chassis_number"`
	Owner         string `json:"owner"`
}

type UpdateVehicleRequest struct {
	Plate         string `json:"plate"`
	Model         string `json:"model"`
	Brand         string `json:"brand"`
	Year          *int   `json:"year"`
	VehicleType   string `json:"vehicle_type"`
	Color         string `json:"color"`
	ChassisNumber string `json:"chassis_number"`
	Owner         string `json:"owner"`
	IsActive      *bool  `json:"is_active"`
}

// List returns the user's vehicles with optional plate/type filters.
func (s *VehicleService) List(userID uint, req *VehicleListRequest) (*VehicleListResponse, error) {
	query := s.db.Model(&models.Vehicle{}).Where("created_by = ?", userID)
	if req.Plate != "" {
		query = query.Where("plate LIKE ?", "%"+strings.ToUpper(req.Plate)+"%")
	}
	if req.Type != "" {
		query = query.Where("vehicle_type = ?", req.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Vehicle
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.PageSize).Find(&items).Error; err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Vehicle{}
	}
	return &VehicleListResponse{Total: total, Page: req.Page, PageSize: req.PageSize, Items: items}, nil
}

func (s *VehicleService) Get(id, userID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.Where("id = ? AND created_by = ?", id, userID).First(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (s *VehicleService) Create(req *CreateVehicleRequest, userID uint) (*models.Vehicle, error) {
	plate := strings.ToUpper(strings.TrimSpace(req.Plate))
	if err := validateVehicle(plate, req.Year, req.VehicleType); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Vehicle{}).Where("plate = ?", plate).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrPlateTaken
	}

	vehicle := models.Vehicle{
		Plate:         plate,
		Model:         req.Model,
		Brand:         req.Brand,
		Year:          req.Year,
		VehicleType:   req.VehicleType,
		Color:         req.Color,
		ChassisNumber: req.ChassisNumber,
		Owner:         req.Owner,
		IsActive:      true,
		CreatedBy:     userID,
	}
	if err := s.db.Create(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (s *VehicleService) Update(id, userID uint, req *UpdateVehicleRequest) (*models.Vehicle, error) {
	vehicle, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	if req.Plate != "" {
		plate := strings.ToUpper(strings.TrimSpace(req.Plate))
		if !plateRegexp.MatchString(plate) {
			return nil, ErrInvalidPlate
		}
		if plate != vehicle.Plate {
			var count int64
			if err := s.db.Model(&models.Vehicle{}).Where("plate = ? AND id <> ?", plate, id).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrPlateTaken
			}
		}
		vehicle.Plate = plate
	}
	if req.Year != nil {
		if *req.Year < 1900 || *req.Year > 2030 {
			return nil, ErrInvalidYear
		}
		vehicle.Year = *req.Year
	}
	if req.VehicleType != "" {
		if !vehicleTypes[req.VehicleType] {
			return nil, ErrInvalidVehicleType
		}
		vehicle.VehicleType = req.VehicleType
	}
	if req.Model != "" {
		vehicle.Model = req.Model
	}
	if req.Brand != "" {
		vehicle.Brand = req.Brand
	}
	if req.Color != "" {
		vehicle.Color = req.Color
	}
	if req.ChassisNumber != "" {
		vehicle.ChassisNumber = req.ChassisNumber
	}
	if req.Owner != "" {
		vehicle.Owner = req.Owner
	}
	if req.IsActive != nil {
		vehicle.IsActive = *req.IsActive
	}

	if err := s.db.Save(vehicle).Error; err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Delete(id, userID uint) error {
	vehicle, err := s.Get(id, userID)
	if err != nil {
		return err
	}
	return s.db.Delete(vehicle).Error
}

func validateVehicle(plate string, year int, vehicleType string) error {
	if !plateRegexp.MatchString(plate) {
		return ErrInvalidPlate
	}
	if year < 1900 || year > 2030 {
		return ErrInvalidYear
	}
	if !vehicleTypes[vehicleType] {
		return ErrInvalidVehicleType
	}
	return nil
}

package services

import (
	"errors"

	"github.com/jviitor13/rodocheck/internal/models"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

type UpdateProfileRequest struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	Company          string `json:"company"`
	Position         string `json:"position"`
	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`
}

// Get returns the user's profile, creating an empty one on first access.
func (s *ProfileService) Get(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{UserID: userID}
		if err := s.db.Create(&profile).Error; err != nil {
			return nil, err
		}
		err = s.db.Preload("User").First(&profile, profile.ID).Error
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update writes profile fields and the user's display name in one pass.
func (s *ProfileService) Update(userID uint, req *UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" || req.LastName != "" {
		updates := map[string]any{}
		if req.FirstName != "" {
			updates["first_name"] = req.FirstName
		}
		if req.LastName != "" {
			updates["last_name"] = req.LastName
		}
		if err := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if req.Phone != "" {
		profile.Phone = req.Phone
	}
	if req.Address != "" {
		profile.Address = req.Address
	}
	if req.Company != "" {
		profile.Company = req.Company
	}
	if req.Position != "" {
		profile.Position = req.Position
	}
	if req.EmergencyContact != "" {
		profile.EmergencyContact = req.EmergencyContact
	}
	if req.EmergencyPhone != "" {
		profile.EmergencyPhone = req.EmergencyPhone
	}
	if err := s.db.Save(profile).Error; err != nil {
		return nil, err
	}
	return s.Get(userID)
}

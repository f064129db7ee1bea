package services

import (
	"github.com/jviitor13/rodocheck/internal/models"
	"gorm.io/gorm"
)

// AIConfigService exposes the admin view of configured AI services.
type AIConfigService struct {
	db      *gorm.DB
	gateway *AIGateway
}

func NewAIConfigService(db *gorm.DB, gateway *AIGateway) *AIConfigService {
	return &AIConfigService{db: db, gateway: gateway}
}

// List returns the configured services with masked keys.
func (s *AIConfigService) List() ([]models.AIConfiguration, error) {
	var configs []models.AIConfiguration
	err := s.db.Order("service_name ASC").Find(&configs).Error
	if configs == nil {
		configs = []models.AIConfiguration{}
	}
	return configs, err
}

// ServiceStatus reports which provider answers AI requests right now.
type ServiceStatus struct {
	Available bool   `json:"available"`
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
}

func (s *AIConfigService) Status() *ServiceStatus {
	provider, err := s.gateway.ActiveProvider()
	if err != nil {
		return &ServiceStatus{Available: false}
	}
	return &ServiceStatus{
		Available: true,
		Provider:  provider.Name(),
		Model:     provider.Model(),
	}
}

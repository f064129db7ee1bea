package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User represents a fleet-system user. Password is empty for Google accounts.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Email          string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username       string         `gorm:"size:150" json:"username"`
	Password       string         `gorm:"size:255" json:"-"`
	FirstName      string         `gorm:"size:150" json:"first_name"`
	LastName       string         `gorm:"size:150" json:"last_name"`
	GoogleID       *string        `gorm:"uniqueIndex;size:100" json:"google_id,omitempty"`
	ProfilePicture string         `gorm:"size:500" json:"profile_picture"`
	Role           string         `gorm:"size:20;default:driver" json:"role"` // admin, manager, mechanic, driver
	IsVerified     bool           `gorm:"default:false" json:"is_verified"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	LastLogin      *time.Time     `json:"last_login"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// FullName returns the display name, falling back to the email.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserProfile holds extended contact information, one per user.
type UserProfile struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User             *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Phone            string    `gorm:"size:20" json:"phone"`
	Address          string    `gorm:"type:text" json:"address"`
	Company          string    `gorm:"size:200" json:"company"`
	Position         string    `gorm:"size:100" json:"position"`
	EmergencyContact string    `gorm:"size:200" json:"emergency_contact"`
	EmergencyPhone   string    `gorm:"size:20" json:"emergency_phone"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Vehicle represents a fleet vehicle. Plate format: ABC1234 or ABC1D23.
type Vehicle struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Plate         string         `gorm:"uniqueIndex;size:20;not null" json:"plate"`
	Model         string         `gorm:"size:100;not null" json:"model"`
	Brand         string         `gorm:"size:100;not null" json:"brand"`
	Year          int            `gorm:"not null" json:"year"`
	VehicleType   string         `gorm:"size:20;not null" json:"vehicle_type"` // truck, trailer, bus, van
	Color         string         `gorm:"size:50" json:"color"`
	ChassisNumber string         `gorm:"size:100" json:"chassis_number"`
	Owner         string         `gorm:"size:200" json:"owner"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedBy     uint           `gorm:"index" json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// FullName returns "Brand Model (PLATE)".
func (v *Vehicle) FullName() string {
	return v.Brand + " " + v.Model + " (" + v.Plate + ")"
}

// Tire represents a tracked tire, optionally mounted on a vehicle.
type Tire struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	SerialNumber     string           `gorm:"uniqueIndex;size:100;not null" json:"serial_number"`
	Brand            string           `gorm:"size:100;not null" json:"brand"`
	Model            string           `gorm:"size:100;not null" json:"model"`
	Size             string           `gorm:"size:50" json:"size"` // e.g. 295/80R22.5
	Status           string           `gorm:"size:20;default:new" json:"status"` // new, in_use, in_stock, maintenance, scrapped
	Position         string           `gorm:"size:20" json:"position"`           // front_left, front_right, rear_left, rear_right, spare
	VehicleID        *uint            `gorm:"index" json:"vehicle_id"`
	Vehicle          *Vehicle         `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	PurchaseDate     *time.Time       `json:"purchase_date"`
	InstallationDate *time.Time       `json:"installation_date"`
	TreadDepth       *float64         `json:"tread_depth"` // millimeters, 0-20
	Mileage          int              `gorm:"default:0" json:"mileage"`
	Price            *decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	IsActive         bool             `gorm:"default:true" json:"is_active"`
	CreatedBy        uint             `gorm:"index" json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`
}

// ChecklistTemplate defines a reusable set of inspection items.
type ChecklistTemplate struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Items       string         `gorm:"type:text" json:"items"` // JSON array of item texts
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedBy   uint           `gorm:"index" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CompletedChecklist is a filled-in inspection for one vehicle. Questions,
// images and signatures are stored as JSON documents, mirroring how the
// mobile client submits them.
type CompletedChecklist struct {
	ID                  string             `gorm:"primaryKey;size:100" json:"id"`
	VehicleID           uint               `gorm:"index;not null" json:"vehicle_id"`
	Vehicle             *Vehicle           `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	TemplateID          *uint              `json:"template_id"`
	Template            *ChecklistTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	CreatedBy           uint               `gorm:"index" json:"created_by"`
	Creator             *User              `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	FinalStatus         string             `gorm:"size:20;default:pending" json:"final_status"` // pending, approved, rejected
	GeneralObservations string             `gorm:"type:text" json:"general_observations"`
	Questions           string             `gorm:"type:text" json:"questions"`                  // JSON array of {text,status,observations}
	VehicleImages       string             `gorm:"type:text" json:"vehicle_images"`             // JSON object slot -> {url}
	Signatures          string             `gorm:"type:text" json:"signatures"`                 // JSON object signer -> data
	PDFPath             string             `gorm:"size:500" json:"pdf_path"`
	IsPDFGenerated      bool               `gorm:"default:false" json:"is_pdf_generated"`
	DownloadCount       int                `gorm:"default:0" json:"download_count"`
	CreatedAt           time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// ChecklistQuestion is one inspection item inside CompletedChecklist.Questions.
type ChecklistQuestion struct {
	Text         string `json:"text"`
	Status       string `json:"status"` // approved, rejected, pending
	Observations string `json:"observations"`
	Photo        string `json:"photo,omitempty"`
}

func (User) TableName() string               { return "users" }
func (UserProfile) TableName() string        { return "user_profiles" }
func (Vehicle) TableName() string            { return "vehicles" }
func (Tire) TableName() string               { return "tires" }
func (ChecklistTemplate) TableName() string  { return "checklist_templates" }
func (CompletedChecklist) TableName() string { return "completed_checklists" }

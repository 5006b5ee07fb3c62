package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead statuses.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
)

// Lead is an enquiry captured from the storefront, persisted in Postgres.
type Lead struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(128);not null" json:"name"`
	Email     string         `gorm:"type:varchar(256);not null;index" json:"email"`
	Phone     string         `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Country   string         `gorm:"type:varchar(64)" json:"country,omitempty"`
	ProductID string         `gorm:"type:varchar(128);index" json:"product_id,omitempty"`
	Message   string         `gorm:"type:text" json:"message,omitempty"`
	Source    string         `gorm:"type:varchar(64)" json:"source,omitempty"`
	Status    string         `gorm:"type:varchar(32);not null;default:'new'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreateLeadRequest is the payload for POST /api/leads.
type CreateLeadRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=128"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
	Country   string `json:"country" binding:"omitempty,max=64"`
	ProductID string `json:"product_id" binding:"omitempty,max=128"`
	Message   string `json:"message" binding:"omitempty,max=4000"`
	Source    string `json:"source" binding:"omitempty,max=64"`
}

// LeadCapturedEvent is published to SNS when a lead is stored.
type LeadCapturedEvent struct {
	EventType string    `json:"event_type"`
	LeadID    string    `json:"lead_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ProductID string    `json:"product_id,omitempty"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// UpdateLeadStatusRequest is the payload for PATCH /api/leads/:id/status.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted"`
}

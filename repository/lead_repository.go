package repository

import (
	"context"

	"checkout-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadRepository defines data-access operations for storefront leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	FindAll(ctx context.Context, status string, page, limit int) ([]models.Lead, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// GormLeadRepository implements LeadRepository using GORM.
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository.
func NewGormLeadRepository(db *gorm.DB) LeadRepository {
	return &GormLeadRepository{db: db}
}

func (r *GormLeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *GormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var l models.Lead
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// FindAll pages through leads newest first. An empty status matches all.
func (r *GormLeadRepository) FindAll(ctx context.Context, status string, page, limit int) ([]models.Lead, int64, error) {
	var leads []models.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Lead{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&leads).Error; err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

func (r *GormLeadRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

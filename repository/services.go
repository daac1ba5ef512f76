package repository

import (
	"context"

	"gorm.io/gorm"

	"agenda-backend/models"
)

type ServiceRepo struct {
	db *gorm.DB
}

func NewServiceRepo(db *gorm.DB) *ServiceRepo {
	return &ServiceRepo{db: db}
}

func (r *ServiceRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	err := r.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, translate(err)
}

func (r *ServiceRepo) FindService(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *ServiceRepo) CreateService(ctx context.Context, s *models.Service) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *ServiceRepo) UpdateService(ctx context.Context, s *models.Service) error {
	return translate(r.db.WithContext(ctx).Save(s).Error)
}

func (r *ServiceRepo) DeleteService(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Service{}, id))
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agenda-backend/models"
)

type ProfessionalRepo struct {
	db *gorm.DB
}

func NewProfessionalRepo(db *gorm.DB) *ProfessionalRepo {
	return &ProfessionalRepo{db: db}
}

func (r *ProfessionalRepo) ListProfessionals(ctx context.Context) ([]models.Professional, error) {
	var out []models.Professional
	err := r.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, translate(err)
}

func (r *ProfessionalRepo) FindProfessional(ctx context.Context, id uint) (*models.Professional, error) {
	var p models.Professional
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// LockProfessional selects the row FOR UPDATE. Only meaningful inside a transaction.
func (r *ProfessionalRepo) LockProfessional(ctx context.Context, id uint) (*models.Professional, error) {
	var p models.Professional
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProfessionalRepo) CreateProfessional(ctx context.Context, p *models.Professional) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *ProfessionalRepo) UpdateProfessional(ctx context.Context, p *models.Professional) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

func (r *ProfessionalRepo) DeleteProfessional(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Professional{}, id))
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agenda-backend/models"
)

type ClientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) *ClientRepo {
	return &ClientRepo{db: db}
}

func (r *ClientRepo) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).Order("name").Find(&clients).Error
	return clients, translate(err)
}

func (r *ClientRepo) FindClient(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *ClientRepo) FindClientByPhone(ctx context.Context, phone string) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// CreateClient inserts c. When a concurrent transaction already inserted the
// same phone, c is filled from the existing row instead.
func (r *ClientRepo) CreateClient(ctx context.Context, c *models.Client) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "phone"}}, DoNothing: true}).
		Create(c)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		existing, err := r.FindClientByPhone(ctx, c.Phone)
		if err != nil {
			return err
		}
		*c = *existing
	}
	return nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agenda-backend/models"
)

// DefaultLogLimit caps ListReminderLogs when no limit is given.
const DefaultLogLimit = 100

type ReminderRepo struct {
	db *gorm.DB
}

func NewReminderRepo(db *gorm.DB) *ReminderRepo {
	return &ReminderRepo{db: db}
}

// ActiveTemplate returns the most recently created active template.
func (r *ReminderRepo) ActiveTemplate(ctx context.Context) (*models.ReminderTemplate, error) {
	var t models.ReminderTemplate
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		First(&t).Error
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *ReminderRepo) ListTemplates(ctx context.Context) ([]models.ReminderTemplate, error) {
	var out []models.ReminderTemplate
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

func (r *ReminderRepo) FindTemplate(ctx context.Context, id uuid.UUID) (*models.ReminderTemplate, error) {
	var t models.ReminderTemplate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *ReminderRepo) CreateTemplate(ctx context.Context, t *models.ReminderTemplate) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *ReminderRepo) UpdateTemplate(ctx context.Context, t *models.ReminderTemplate) error {
	return translate(r.db.WithContext(ctx).Save(t).Error)
}

func (r *ReminderRepo) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ReminderTemplate{}))
}

func (r *ReminderRepo) CreateReminderLog(ctx context.Context, l *models.ReminderLog) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

// ListReminderLogs returns the newest attempts first.
func (r *ReminderRepo) ListReminderLogs(ctx context.Context, limit int) ([]models.ReminderLog, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	var out []models.ReminderLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, translate(err)
}

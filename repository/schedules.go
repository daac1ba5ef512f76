package repository

import (
	"context"

	"gorm.io/gorm"

	"agenda-backend/models"
)

type ScheduleRepo struct {
	db *gorm.DB
}

func NewScheduleRepo(db *gorm.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

func (r *ScheduleRepo) ListWindows(ctx context.Context) ([]models.ScheduleWindow, error) {
	var out []models.ScheduleWindow
	err := r.db.WithContext(ctx).Order("date, start_time").Find(&out).Error
	return out, translate(err)
}

func (r *ScheduleRepo) ListWindowsByProfessional(ctx context.Context, professionalID uint) ([]models.ScheduleWindow, error) {
	var out []models.ScheduleWindow
	err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Order("date, start_time").
		Find(&out).Error
	return out, translate(err)
}

func (r *ScheduleRepo) FindWindow(ctx context.Context, id uint) (*models.ScheduleWindow, error) {
	var w models.ScheduleWindow
	if err := r.db.WithContext(ctx).First(&w, id).Error; err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (r *ScheduleRepo) FindActiveWindow(ctx context.Context, professionalID uint, date models.Date) (*models.ScheduleWindow, error) {
	var w models.ScheduleWindow
	err := r.db.WithContext(ctx).
		Where("professional_id = ? AND date = ? AND status = ?", professionalID, date, models.ScheduleActive).
		Order("start_time").
		First(&w).Error
	if err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (r *ScheduleRepo) ListInactiveWindows(ctx context.Context, professionalID uint, date models.Date) ([]models.ScheduleWindow, error) {
	var out []models.ScheduleWindow
	err := r.db.WithContext(ctx).
		Where("professional_id = ? AND date = ? AND status = ?", professionalID, date, models.ScheduleInactive).
		Order("start_time").
		Find(&out).Error
	return out, translate(err)
}

func (r *ScheduleRepo) CreateWindow(ctx context.Context, w *models.ScheduleWindow) error {
	return translate(r.db.WithContext(ctx).Create(w).Error)
}

func (r *ScheduleRepo) UpdateWindow(ctx context.Context, w *models.ScheduleWindow) error {
	res := r.db.WithContext(ctx).
		Model(&models.ScheduleWindow{}).
		Where("id = ?", w.ID).
		Updates(map[string]interface{}{
			"professional_id": w.ProfessionalID,
			"date":            w.Date,
			"start_time":      w.StartTime,
			"end_time":        w.EndTime,
			"status":          w.Status,
		})
	return affected(res)
}

func (r *ScheduleRepo) DeleteWindow(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.ScheduleWindow{}, id))
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"agenda-backend/models"
)

// VisitHistoryFilter narrows detail listings. Zero fields match everything.
type VisitHistoryFilter struct {
	ID       uint
	ClientID uint
}

type VisitHistoryRepo struct {
	db *gorm.DB
}

func NewVisitHistoryRepo(db *gorm.DB) *VisitHistoryRepo {
	return &VisitHistoryRepo{db: db}
}

func (r *VisitHistoryRepo) ListVisitHistories(ctx context.Context) ([]models.VisitHistory, error) {
	var out []models.VisitHistory
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

func (r *VisitHistoryRepo) FindVisitHistory(ctx context.Context, id uint) (*models.VisitHistory, error) {
	var hv models.VisitHistory
	if err := r.db.WithContext(ctx).First(&hv, id).Error; err != nil {
		return nil, translate(err)
	}
	return &hv, nil
}

func (r *VisitHistoryRepo) FindVisitHistoryByAppointment(ctx context.Context, appointmentID uint) (*models.VisitHistory, error) {
	var hv models.VisitHistory
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at DESC").
		First(&hv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &hv, nil
}

func (r *VisitHistoryRepo) CreateVisitHistory(ctx context.Context, hv *models.VisitHistory) error {
	return translate(r.db.WithContext(ctx).Create(hv).Error)
}

func (r *VisitHistoryRepo) UpdateVisitHistory(ctx context.Context, hv *models.VisitHistory) error {
	return translate(r.db.WithContext(ctx).Save(hv).Error)
}

func (r *VisitHistoryRepo) DeleteVisitHistory(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.VisitHistory{}, id))
}

// ListVisitHistoryDetails joins each record with its appointment, client,
// service and professional.
func (r *VisitHistoryRepo) ListVisitHistoryDetails(ctx context.Context, f VisitHistoryFilter) ([]models.VisitHistoryDetail, error) {
	q := r.db.WithContext(ctx).
		Table("historias_visita AS hv").
		Select(`hv.id, hv.description, hv.service_description, hv.image_before, hv.image_after, hv.created_at,
			c.id AS appointment_id, c.date, c.start_time, c.end_time, c.status,
			cl.id AS client_id, cl.name AS client_name, cl.phone AS client_phone,
			s.name AS service_name, p.name AS professional_name`).
		Joins("JOIN citas c ON c.id = hv.appointment_id").
		Joins("JOIN clientes cl ON cl.id = c.client_id").
		Joins("JOIN servicios s ON s.id = c.service_id").
		Joins("JOIN profesionales p ON p.id = c.professional_id")
	if f.ID != 0 {
		q = q.Where("hv.id = ?", f.ID)
	}
	if f.ClientID != 0 {
		q = q.Where("cl.id = ?", f.ClientID)
	}
	var out []models.VisitHistoryDetail
	err := q.Order("hv.created_at DESC").Scan(&out).Error
	return out, translate(err)
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"agenda-backend/models"
)

// AppointmentFilter narrows detail listings. Zero fields match everything.
type AppointmentFilter struct {
	ProfessionalID uint
	Date           models.Date
}

type AppointmentRepo struct {
	db *gorm.DB
}

func NewAppointmentRepo(db *gorm.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	err := r.db.WithContext(ctx).Order("date DESC, start_time").Find(&out).Error
	return out, translate(err)
}

func (r *AppointmentRepo) FindAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var a models.Appointment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *AppointmentRepo) ListBookedAppointments(ctx context.Context, professionalID uint, date models.Date) ([]models.Appointment, error) {
	var out []models.Appointment
	err := r.db.WithContext(ctx).
		Where("professional_id = ? AND date = ? AND status <> ?", professionalID, date, models.AppointmentCancelled).
		Order("start_time").
		Find(&out).Error
	return out, translate(err)
}

func (r *AppointmentRepo) ListBookedDates(ctx context.Context, professionalID uint, from models.Date) ([]models.Date, error) {
	var out []models.Date
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Distinct("date").
		Where("professional_id = ? AND date >= ? AND status <> ?", professionalID, from, models.AppointmentCancelled).
		Order("date").
		Pluck("date", &out).Error
	return out, translate(err)
}

func (r *AppointmentRepo) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *AppointmentRepo) UpdateAppointmentStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	return affected(res)
}

// ListAppointmentDetails joins client, service and professional names.
func (r *AppointmentRepo) ListAppointmentDetails(ctx context.Context, f AppointmentFilter) ([]models.AppointmentDetail, error) {
	q := r.db.WithContext(ctx).
		Table("citas AS c").
		Select(`c.id, cl.name AS client_name, s.name AS service_name, s.duration_minutes AS service_duration,
			c.date, c.start_time, c.end_time, p.name AS professional_name, c.status, c.reference_number`).
		Joins("JOIN clientes cl ON cl.id = c.client_id").
		Joins("JOIN servicios s ON s.id = c.service_id").
		Joins("JOIN profesionales p ON p.id = c.professional_id")
	if f.ProfessionalID != 0 {
		q = q.Where("c.professional_id = ?", f.ProfessionalID)
	}
	if f.Date != "" {
		q = q.Where("c.date = ?", f.Date)
	}
	var out []models.AppointmentDetail
	err := q.Order("c.date DESC, c.start_time").Scan(&out).Error
	return out, translate(err)
}

// AppointmentStats counts appointments by status, optionally for one professional.
func (r *AppointmentRepo) AppointmentStats(ctx context.Context, professionalID uint) (*models.AppointmentStats, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = ?) AS pending,
			COUNT(*) FILTER (WHERE status = ?) AS confirmed,
			COUNT(*) FILTER (WHERE status = ?) AS cancelled`,
			models.AppointmentPending, models.AppointmentConfirmed, models.AppointmentCancelled)
	if professionalID != 0 {
		q = q.Where("professional_id = ?", professionalID)
	}
	var stats models.AppointmentStats
	if err := q.Scan(&stats).Error; err != nil {
		return nil, translate(err)
	}
	return &stats, nil
}

// ListReminderCandidates returns booked appointments on date with no successful reminder logged.
func (r *AppointmentRepo) ListReminderCandidates(ctx context.Context, date models.Date) ([]models.ReminderCandidate, error) {
	var out []models.ReminderCandidate
	err := r.db.WithContext(ctx).
		Table("citas AS c").
		Select(`c.id AS appointment_id, cl.id AS client_id, cl.name AS client_name, cl.phone AS client_phone,
			s.name AS service_name, p.name AS professional_name, c.date, c.start_time`).
		Joins("JOIN clientes cl ON cl.id = c.client_id").
		Joins("JOIN servicios s ON s.id = c.service_id").
		Joins("JOIN profesionales p ON p.id = c.professional_id").
		Where("c.date = ? AND c.status <> ?", date, models.AppointmentCancelled).
		Where("NOT EXISTS (SELECT 1 FROM reminder_logs rl WHERE rl.appointment_id = c.id AND rl.status = ?)", models.ReminderSent).
		Order("c.start_time").
		Scan(&out).Error
	return out, translate(err)
}

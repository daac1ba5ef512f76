package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"agenda-backend/models"
)

type ReportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

func (r *ReportRepo) CountClients(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Client{}).Count(&n).Error
	return n, translate(err)
}

// UpcomingBirthdays returns clients whose birthday (ignoring the year) falls
// within days of from, from included.
func (r *ReportRepo) UpcomingBirthdays(ctx context.Context, from models.Date, days int) ([]models.Client, error) {
	start, err := from.Time(time.UTC)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, days)
	for i := 0; i < days; i++ {
		keys = append(keys, start.AddDate(0, 0, i).Format("01-02"))
	}
	var out []models.Client
	err = r.db.WithContext(ctx).
		Where("birth_date IS NOT NULL AND TO_CHAR(birth_date, 'MM-DD') IN ?", keys).
		Order("EXTRACT(MONTH FROM birth_date), EXTRACT(DAY FROM birth_date)").
		Find(&out).Error
	return out, translate(err)
}

// ServiceReport counts bookings and revenue per service between from and to inclusive.
func (r *ReportRepo) ServiceReport(ctx context.Context, from, to models.Date) ([]models.ServiceSummary, error) {
	var out []models.ServiceSummary
	err := r.db.WithContext(ctx).
		Table("citas AS c").
		Select("s.id AS service_id, s.name, COUNT(c.id) AS count, COALESCE(SUM(s.cost), 0) AS revenue").
		Joins("JOIN servicios s ON s.id = c.service_id").
		Where("c.date BETWEEN ? AND ? AND c.status <> ?", from, to, models.AppointmentCancelled).
		Group("s.id, s.name").
		Order("count DESC, revenue DESC").
		Scan(&out).Error
	return out, translate(err)
}

// TopClients ranks clients by non-cancelled visits between from and to inclusive.
func (r *ReportRepo) TopClients(ctx context.Context, from, to models.Date, limit int) ([]models.ClientSummary, error) {
	var out []models.ClientSummary
	err := r.db.WithContext(ctx).
		Table("citas AS c").
		Select("cl.id AS client_id, cl.name, COUNT(c.id) AS visits").
		Joins("JOIN clientes cl ON cl.id = c.client_id").
		Where("c.date BETWEEN ? AND ? AND c.status <> ?", from, to, models.AppointmentCancelled).
		Group("cl.id, cl.name").
		Order("visits DESC, cl.name").
		Limit(limit).
		Scan(&out).Error
	return out, translate(err)
}

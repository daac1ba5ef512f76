package repository

import (
	"context"

	"gorm.io/gorm"

	"agenda-backend/scheduling"
)

// Stores bundles the per-entity repositories over one *gorm.DB, which may be
// a transaction handle.
type Stores struct {
	*ClientRepo
	*ProfessionalRepo
	*ServiceRepo
	*ScheduleRepo
	*AppointmentRepo
	*VisitHistoryRepo
	*CourseRepo
	*ReminderRepo
	*ReportRepo

	db *gorm.DB
}

var (
	_ scheduling.TxStore    = (*Stores)(nil)
	_ scheduling.Transactor = (*Stores)(nil)
)

func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		ClientRepo:       NewClientRepo(db),
		ProfessionalRepo: NewProfessionalRepo(db),
		ServiceRepo:      NewServiceRepo(db),
		ScheduleRepo:     NewScheduleRepo(db),
		AppointmentRepo:  NewAppointmentRepo(db),
		VisitHistoryRepo: NewVisitHistoryRepo(db),
		CourseRepo:       NewCourseRepo(db),
		ReminderRepo:     NewReminderRepo(db),
		ReportRepo:       NewReportRepo(db),
		db:               db,
	}
}

// WithinTx runs fn against repositories bound to one database transaction.
// gorm commits when fn returns nil and rolls back otherwise.
func (s *Stores) WithinTx(ctx context.Context, fn func(tx scheduling.TxStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}

// Ping checks database connectivity.
func (s *Stores) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

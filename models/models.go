package models

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Client{},
		&Professional{},
		&Service{},
		&ScheduleWindow{},
		&Appointment{},
		&VisitHistory{},
		&Course{},
		&ReminderTemplate{},
		&ReminderLog{},
	}
}

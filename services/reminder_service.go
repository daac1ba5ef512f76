// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"agenda-backend/models"
	"agenda-backend/scheduling"
	"agenda-backend/utils"
)

// DefaultReminderMessage is used when no active template exists.
const DefaultReminderMessage = "Hola [ClientName], te recordamos tu cita de [Service] con [Professional] el [Date] a las [Time]."

const ChannelSMS = "sms"

// MessageSender delivers one text message and returns the provider id.
type MessageSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type ReminderStore interface {
	ListReminderCandidates(ctx context.Context, date models.Date) ([]models.ReminderCandidate, error)
	ActiveTemplate(ctx context.Context) (*models.ReminderTemplate, error)
	CreateReminderLog(ctx context.Context, l *models.ReminderLog) error
}

type ReminderRecorder interface {
	ObserveReminder(status string)
}

// RunSummary reports one reminder run.
type RunSummary struct {
	Date       models.Date `json:"fecha"`
	Candidates int         `json:"candidatos"`
	Sent       int         `json:"enviados"`
	Failed     int         `json:"fallidos"`
}

type ReminderService struct {
	store    ReminderStore
	sender   MessageSender
	recorder ReminderRecorder
	loc      *time.Location
	now      func() time.Time
	log      *slog.Logger
	cron     *cron.Cron
}

func NewReminderService(store ReminderStore, sender MessageSender, recorder ReminderRecorder, loc *time.Location, log *slog.Logger) *ReminderService {
	return &ReminderService{
		store:    store,
		sender:   sender,
		recorder: recorder,
		loc:      loc,
		now:      time.Now,
		log:      log.With("component", "reminders"),
	}
}

// StartScheduler registers the daily run on spec (standard 5-field cron,
// evaluated in the business timezone) and starts the cron loop.
func (s *ReminderService) StartScheduler(spec string) error {
	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.SendDailyReminders(ctx); err != nil {
			s.log.Error("daily reminder run failed", "err", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	s.cron = c
	c.Start()
	s.log.Info("reminder scheduler started", "schedule", spec)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *ReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// SendDailyReminders messages every client with a booked appointment tomorrow
// that has not been reminded successfully yet. Every attempt is logged.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (RunSummary, error) {
	date := utils.Tomorrow(s.now(), s.loc)
	summary := RunSummary{Date: date}

	candidates, err := s.store.ListReminderCandidates(ctx, date)
	if err != nil {
		return summary, fmt.Errorf("list reminder candidates: %w", err)
	}
	summary.Candidates = len(candidates)
	if len(candidates) == 0 {
		s.log.Info("no reminders to send", "date", date)
		return summary, nil
	}

	message := DefaultReminderMessage
	var active *models.ReminderTemplate
	template, err := s.store.ActiveTemplate(ctx)
	switch {
	case err == nil:
		message = template.Message
		active = template
	case errors.Is(err, models.ErrNotFound):
		s.log.Info("no active reminder template, using default message")
	default:
		return summary, fmt.Errorf("load reminder template: %w", err)
	}

	for _, cand := range candidates {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		body := RenderReminder(message, cand)
		entry := models.ReminderLog{
			AppointmentID: cand.AppointmentID,
			ClientID:      cand.ClientID,
			Message:       body,
			Channel:       ChannelSMS,
			Status:        models.ReminderSent,
			SentAt:        s.now(),
		}
		if active != nil {
			entry.TemplateID = &active.ID
		}

		sid, err := s.sender.Send(ctx, cand.ClientPhone, body)
		if err != nil {
			s.log.Warn("reminder not delivered", "appointment_id", cand.AppointmentID, "err", err)
			entry.Status = models.ReminderFailed
			entry.ErrorMessage = err.Error()
			summary.Failed++
		} else {
			s.log.Info("reminder sent", "appointment_id", cand.AppointmentID, "sid", sid)
			summary.Sent++
		}
		if s.recorder != nil {
			s.recorder.ObserveReminder(entry.Status)
		}

		if err := s.store.CreateReminderLog(ctx, &entry); err != nil {
			s.log.Error("failed to log reminder", "appointment_id", cand.AppointmentID, "err", err)
		}
	}

	s.log.Info("reminder run completed", "date", date, "sent", summary.Sent, "failed", summary.Failed)
	return summary, nil
}

// RenderReminder substitutes the template placeholders for one appointment.
func RenderReminder(message string, cand models.ReminderCandidate) string {
	at := cand.StartTime
	if clock, err := scheduling.ParseClock(cand.StartTime); err == nil {
		at = clock.Format12()
	}
	r := strings.NewReplacer(
		"[ClientName]", cand.ClientName,
		"[Service]", cand.ServiceName,
		"[Professional]", cand.ProfessionalName,
		"[Date]", cand.Date.String(),
		"[Time]", at,
	)
	return r.Replace(message)
}

// TwilioSender sends SMS through the Twilio messages API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioSender) Send(_ context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

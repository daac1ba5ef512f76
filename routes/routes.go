package routes

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"agenda-backend/config"
	"agenda-backend/controllers"
	"agenda-backend/metrics"
	"agenda-backend/repository"
	"agenda-backend/scheduling"
	"agenda-backend/utils"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Log         *slog.Logger
	Stores      *repository.Stores
	Allocator   *scheduling.Allocator
	Booker      *scheduling.Booker
	Schedules   *scheduling.ScheduleManager
	Reminders   controllers.ReminderRunner // nil when reminders are disabled
	Limiter     utils.Limiter              // nil disables rate limiting
	HTTPMetrics *metrics.HTTPMetrics
	Metrics     http.Handler // served at /metrics when set
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", config.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", config.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.RequestLogger(d.Log, d.HTTPMetrics))

	r.GET("/healthz", controllers.Healthz)
	r.GET("/readyz", controllers.Readyz(d.Stores))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	loc := d.Config.Location
	appointments := controllers.NewAppointmentController(d.Booker, d.Allocator, d.Stores, d.Log)
	schedules := controllers.NewScheduleController(d.Schedules, d.Stores, d.Log)
	clients := controllers.NewClientController(d.Stores, d.Log)
	professionals := controllers.NewProfessionalController(d.Stores, d.Schedules, d.Log)
	services := controllers.NewServiceController(d.Stores, d.Log)
	courses := controllers.NewCourseController(d.Stores, d.Log)
	visits := controllers.NewVisitHistoryController(d.Stores, d.Log)
	reminders := controllers.NewReminderController(d.Stores, d.Reminders, d.Log)
	dashboard := controllers.NewDashboardController(d.Stores, loc, d.Log)
	reports := controllers.NewReportController(d.Stores, loc, d.Log)

	// Public booking endpoints share one request budget per client IP.
	public := []gin.HandlerFunc{}
	if d.Limiter != nil {
		public = append(public, utils.RateLimit(d.Limiter, d.Log))
	}
	book := append(public[:len(public):len(public)], appointments.CreateAppointment)
	avail := append(public[:len(public):len(public)], appointments.GetAvailability)

	r.POST("/appointments", book...)
	r.POST("/appointments/availability", avail...)

	api := r.Group("/api")
	{
		citas := api.Group("/citas")
		{
			citas.POST("", book...)
			citas.POST("/disponibilidad", avail...)
			citas.GET("", appointments.GetAppointments)
			citas.GET("/:id", appointments.GetAppointment)
			citas.PATCH("/:id/estado", appointments.UpdateStatus)
		}

		api.GET("/admin/citas", appointments.GetAdminAppointments)

		byProfessional := api.Group("/citas-profesional")
		{
			byProfessional.GET("/profesional/:id", appointments.GetProfessionalAppointments)
			byProfessional.GET("/fecha/:fecha", appointments.GetAppointmentsByDate)
			byProfessional.GET("/stats", appointments.GetStats)
		}

		horarios := api.Group("/horarios")
		{
			horarios.GET("", schedules.GetSchedules)
			horarios.POST("", schedules.CreateSchedule)
			horarios.GET("/profesional/:id", schedules.GetProfessionalSchedules)
			horarios.GET("/:id", schedules.GetSchedule)
			horarios.PUT("/:id", schedules.UpdateSchedule)
			horarios.DELETE("/:id", schedules.DeleteSchedule)
		}

		clientes := api.Group("/clientes")
		{
			clientes.GET("", clients.GetClients)
			clientes.GET("/:id", clients.GetClient)
		}

		profesionales := api.Group("/profesionales")
		{
			profesionales.GET("", professionals.GetProfessionals)
			profesionales.POST("", professionals.CreateProfessional)
			profesionales.GET("/:id", professionals.GetProfessional)
			profesionales.PUT("/:id", professionals.UpdateProfessional)
			profesionales.DELETE("/:id", professionals.DeleteProfessional)
		}

		servicios := api.Group("/servicios")
		{
			servicios.GET("", services.GetServices)
			servicios.POST("", services.CreateService)
			servicios.GET("/:id", services.GetService)
			servicios.PUT("/:id", services.UpdateService)
			servicios.DELETE("/:id", services.DeleteService)
		}

		cursos := api.Group("/cursos")
		{
			cursos.GET("", courses.GetCourses)
			cursos.POST("", courses.CreateCourse)
			cursos.GET("/:id", courses.GetCourse)
			cursos.PUT("/:id", courses.UpdateCourse)
			cursos.DELETE("/:id", courses.DeleteCourse)
		}

		hv := api.Group("/hv")
		{
			hv.GET("", visits.GetVisitHistories)
			hv.POST("", visits.CreateVisitHistory)
			hv.GET("/cita/:idCita", visits.GetVisitHistoryByAppointment)
			hv.GET("/completa/todas", visits.GetAllDetails)
			hv.GET("/completa/cliente/:idCliente", visits.GetClientDetails)
			hv.GET("/completa/hv/:idHv", visits.GetDetail)
			hv.GET("/:id", visits.GetVisitHistory)
			hv.PUT("/:id", visits.UpdateVisitHistory)
			hv.DELETE("/:id", visits.DeleteVisitHistory)
		}

		recordatorios := api.Group("/recordatorios")
		{
			recordatorios.GET("/plantillas", reminders.GetReminderTemplates)
			recordatorios.POST("/plantillas", reminders.CreateReminderTemplate)
			recordatorios.GET("/plantillas/:id", reminders.GetReminderTemplate)
			recordatorios.PUT("/plantillas/:id", reminders.UpdateReminderTemplate)
			recordatorios.DELETE("/plantillas/:id", reminders.DeleteReminderTemplate)
			recordatorios.GET("/logs", reminders.GetReminderLogs)
			recordatorios.POST("/enviar", reminders.SendReminders)
		}

		api.GET("/dashboard", dashboard.GetDashboardOverview)
		api.GET("/reportes", reports.GetReport)
	}

	return r
}

// PrintRoutes writes one line per registered route.
func PrintRoutes(w io.Writer, r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Fprintf(w, "%-6s %s\n", route.Method, route.Path)
	}
}

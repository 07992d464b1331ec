package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/authz"
	"github.com/BruksfildServices01/barbershop-booking/internal/config"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barbershop-booking/internal/handlers"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/notify"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barbershop-booking/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/barbershop-booking/internal/usecase/availability"
)

// Store is everything the HTTP surface reads and writes.
type Store interface {
	domain.Repository
	handlers.UserStore
	handlers.ScheduleStore
}

type Dependencies struct {
	Store    Store
	Schedule *availability.Loader
	// Cache is invalidated on schedule writes; nil when windows are not cached.
	Cache *availability.CachedProvider

	Audit    *audit.Dispatcher
	Notify   *notify.Dispatcher
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	Clock  timezone.Clock
	Log    zerolog.Logger
	Config *config.Config
}

func RegisterRoutes(r *gin.Engine, d Dependencies) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestLogger(d.Log),
		middleware.Recovery(d.Log),
		middleware.CORSMiddleware(cfg.CORSOrigins...),
	)

	// ======================================================
	// USE CASES
	// ======================================================
	apptDeps := ucAppointment.Deps{
		Repo:              d.Store,
		Schedule:          d.Schedule,
		Audit:             d.Audit,
		Notify:            d.Notify,
		Metrics:           d.Metrics,
		Clock:             d.Clock,
		Log:               d.Log,
		MinAdvanceMinutes: cfg.MinAdvanceMinutes,
	}
	avDeps := ucAvailability.Deps{
		Repo:     d.Store,
		Schedule: d.Schedule,
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	az := authz.New(d.Store)

	authHandler := handlers.NewAuthHandler(d.Store, cfg.JWTSecret, d.Clock)

	appointmentHandler := handlers.NewAppointmentHandler(
		d.Store,
		az,
		ucAppointment.NewCreateAppointment(apptDeps),
		ucAppointment.NewRescheduleAppointment(apptDeps),
		ucAppointment.NewTransitionAppointment(apptDeps),
		ucAppointment.NewGetAppointment(apptDeps),
		ucAppointment.NewListAppointments(apptDeps),
	)

	availabilityHandler := handlers.NewAvailabilityHandler(
		ucAvailability.NewBarberFreeWindow(avDeps),
		ucAvailability.NewShopDayAvailability(avDeps),
		ucAvailability.NewDaySlots(avDeps),
		d.Clock,
	)

	var invalidator handlers.ScheduleInvalidator
	if d.Cache != nil {
		invalidator = d.Cache
	}
	scheduleHandler := handlers.NewScheduleHandler(d.Store, az, invalidator)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RateLimitRPS),
		Burst: cfg.RateLimitBurst,
	})

	// ======================================================
	// INFRA
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(limiter.RateLimit())
		{
			publicAPI.GET("/barbers/:id/free", availabilityHandler.BarberFreeWindow)
			publicAPI.GET("/barbershops/:id/availability", availabilityHandler.ShopDays)
			publicAPI.GET("/barbershops/:id/slots", availabilityHandler.DaySlots)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", limiter.RateLimit(), authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.GET("/working-hours", scheduleHandler.GetWorkingWindows)
			secured.PUT("/working-hours", scheduleHandler.UpdateWorkingWindows)

			secured.GET("/operating-hours", scheduleHandler.GetOperatingHours)
			secured.PUT("/operating-hours", scheduleHandler.UpdateOperatingHours)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Transition(domain.ActionConfirm))
			secured.PATCH("/appointments/:id/start", appointmentHandler.Transition(domain.ActionStart))
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Transition(domain.ActionComplete))
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Transition(domain.ActionCancel))
		}
	}
}

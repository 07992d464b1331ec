package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barbershop-booking/internal/authz"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	ucAppointment "github.com/BruksfildServices01/barbershop-booking/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/barbershop-booking/internal/usecase/availability"
)

const testSecret = "handlers-secret"

// Sunday noon UTC; bookings go on Monday 2030-03-04.
var sundayNoon = time.Date(2030, 3, 3, 12, 0, 0, 0, time.UTC)

type env struct {
	repo   *repository.MemoryRepository
	router *gin.Engine
	auth   *AuthHandler

	shop       models.Barbershop
	owner      models.User
	barber     models.User
	other      models.User
	clientUser models.User
	client     models.Client
	stranger   models.Client
	service    models.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepository()
	ctx := context.Background()
	e := &env{repo: repo}

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	require.NoError(t, err)

	e.shop = repo.AddBarbershop(models.Barbershop{
		Name:              "Central",
		Slug:              "central",
		Timezone:          "UTC",
		MinAdvanceMinutes: 60,
	})
	e.owner = repo.AddUser(models.User{
		BarbershopID: e.shop.ID, Name: "Dona", Email: "dona@central.com",
		PasswordHash: string(hash), Role: models.RoleOwner, Active: true,
	})
	e.barber = repo.AddUser(models.User{
		BarbershopID: e.shop.ID, Name: "João", Email: "joao@central.com",
		PasswordHash: string(hash), Role: models.RoleBarber, Active: true,
	})
	e.other = repo.AddUser(models.User{
		BarbershopID: e.shop.ID, Name: "Bia", Email: "bia@central.com",
		PasswordHash: string(hash), Role: models.RoleBarber, Active: true,
	})
	e.clientUser = repo.AddUser(models.User{
		BarbershopID: e.shop.ID, Name: "Carlos", Email: "carlos@example.com",
		PasswordHash: string(hash), Role: models.RoleClient, Active: true,
	})
	e.client = repo.AddClient(models.Client{
		BarbershopID: e.shop.ID, UserID: &e.clientUser.ID, Name: "Carlos", Email: "carlos@example.com",
	})
	e.stranger = repo.AddClient(models.Client{
		BarbershopID: e.shop.ID, Name: "Pedro", Phone: "+5511999990000",
	})
	e.service = repo.AddService(models.Service{
		BarbershopID: e.shop.ID, Name: "Corte", DurationMin: 30, Price: 50, Active: true,
	})

	require.NoError(t, repo.ReplaceOperatingHours(ctx, e.shop.ID, []models.OperatingHours{
		{DayOfWeek: int(domain.Monday), OpeningTime: "08:00", ClosingTime: "18:00"},
	}))
	require.NoError(t, repo.ReplaceWorkingWindows(ctx, e.barber.ID, []models.WorkingWindow{
		{DayOfWeek: int(domain.Monday), StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
	}))

	clock := func() time.Time { return sundayNoon }
	loader := availability.NewLoader(availability.NewRepositoryProvider(repo), repo)

	deps := ucAppointment.Deps{
		Repo:     repo,
		Schedule: loader,
		Clock:    clock,
		Log:      zerolog.Nop(),
	}
	avDeps := ucAvailability.Deps{Repo: repo, Schedule: loader}
	az := authz.New(repo)

	e.auth = NewAuthHandler(repo, testSecret, clock)
	appointments := NewAppointmentHandler(
		repo,
		az,
		ucAppointment.NewCreateAppointment(deps),
		ucAppointment.NewRescheduleAppointment(deps),
		ucAppointment.NewTransitionAppointment(deps),
		ucAppointment.NewGetAppointment(deps),
		ucAppointment.NewListAppointments(deps),
	)
	av := NewAvailabilityHandler(
		ucAvailability.NewBarberFreeWindow(avDeps),
		ucAvailability.NewShopDayAvailability(avDeps),
		ucAvailability.NewDaySlots(avDeps),
		clock,
	)
	schedule := NewScheduleHandler(repo, az, nil)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/login", e.auth.Login)

	public := api.Group("/public")
	public.GET("/barbers/:id/free", av.BarberFreeWindow)
	public.GET("/barbershops/:id/availability", av.ShopDays)
	public.GET("/barbershops/:id/slots", av.DaySlots)

	secured := api.Group("/me", middleware.AuthMiddleware(testSecret))
	secured.POST("/appointments", appointments.Create)
	secured.GET("/appointments", appointments.ListByDate)
	secured.GET("/appointments/month", appointments.ListByMonth)
	secured.GET("/appointments/:id", appointments.Get)
	secured.PATCH("/appointments/:id/reschedule", appointments.Reschedule)
	secured.PATCH("/appointments/:id/status", appointments.UpdateStatus)
	secured.PATCH("/appointments/:id/cancel", appointments.Transition(domain.ActionCancel))
	secured.GET("/working-hours", schedule.GetWorkingWindows)
	secured.PUT("/working-hours", schedule.UpdateWorkingWindows)
	secured.GET("/operating-hours", schedule.GetOperatingHours)
	secured.PUT("/operating-hours", schedule.UpdateOperatingHours)

	e.router = r
	return e
}

func (e *env) token(t *testing.T, u models.User) string {
	t.Helper()
	tok, err := e.auth.generateToken(&u)
	require.NoError(t, err)
	return tok
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (e *env) book(t *testing.T, token string, clock string) models.Appointment {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/me/appointments", token, gin.H{
		"barber_id":  e.barber.ID,
		"client_id":  e.client.ID,
		"service_id": e.service.ID,
		"date":       "2030-03-04",
		"time":       clock,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Appointment](t, w)
}

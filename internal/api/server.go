package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/limbo/habitgrid/internal/service"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	mx            *chi.Mux
	userService   service.UserServiceI
	habitsService service.HabitsServiceI
	jwtService    JWTServiceI
	location      *time.Location
}

type ServicesList struct {
	UserService   service.UserServiceI
	HabitsService service.HabitsServiceI
	JwtService    JWTServiceI
	// Timezone "today" is computed in unless a request names its own.
	Location *time.Location
}

func New(servicesOptions *ServicesList) *Server {
	loc := servicesOptions.Location
	if loc == nil {
		loc = time.Local
	}
	s := &Server{
		mx:            chi.NewMux(),
		userService:   servicesOptions.UserService,
		habitsService: servicesOptions.HabitsService,
		jwtService:    servicesOptions.JwtService,
		location:      loc,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)

			r.Get("/users/me", s.Me)
			r.Put("/users/me/password", s.ChangePassword)
			r.Delete("/users/me", s.DeleteAccount)

			r.Get("/habits", s.GetHabits)
			r.Post("/habits", s.CreateHabit)
			r.Get("/habits/{id}", s.GetHabit)
			r.Patch("/habits/{id}", s.UpdateHabit)
			r.Delete("/habits/{id}", s.DeleteHabit)
			r.Post("/habits/{id}/entries/{date}/toggle", s.ToggleEntry)
			r.Get("/habits/{id}/stats", s.HabitStats)
			r.Get("/habits/{id}/calendar", s.MonthCalendar)
			r.Get("/week", s.WeekBoard)

			r.Get("/data/export", s.ExportData)
			r.Post("/data/import", s.ImportData)
			r.Post("/data/backup", s.BackupData)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run serves on addr until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", slog.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New("server shutdown error: " + err.Error())
	}
	return nil
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sekolahapps/kebiasaan/internal/service"
	"github.com/sekolahapps/kebiasaan/internal/session"
)

type Server struct {
	mx             *chi.Mux
	authService    service.AuthServiceI
	habitsService  service.HabitsServiceI
	reportsService service.ReportsServiceI
	classService   service.ClassServiceI
	adminService   service.AdminServiceI
	jwtService     JWTServiceI
	sessions       *session.Manager
}

type ServicesList struct {
	AuthService    service.AuthServiceI
	HabitsService  service.HabitsServiceI
	ReportsService service.ReportsServiceI
	ClassService   service.ClassServiceI
	AdminService   service.AdminServiceI
	JwtService     JWTServiceI
	Sessions       *session.Manager
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:             chi.NewMux(),
		authService:    servicesOptions.AuthService,
		habitsService:  servicesOptions.HabitsService,
		reportsService: servicesOptions.ReportsService,
		classService:   servicesOptions.ClassService,
		adminService:   servicesOptions.AdminService,
		jwtService:     servicesOptions.JwtService,
		sessions:       servicesOptions.Sessions,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)

	// Navigation surface: each page path answers with its view or a
	// redirect decided by the role router.
	for _, path := range []string{
		"/", "/login", "/profile",
		"/siswa", "/siswa/report", "/siswa/history",
		"/wali", "/wali/class", "/wali/student/{id}",
		"/admin",
	} {
		s.mx.Get(path, s.Navigate)
	}

	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware, s.RoleGuardMiddleware)
			r.Post("/auth/logout", s.Logout)
			r.Get("/session", s.Session)
			r.Get("/profile", s.Profile)
			r.Get("/habits", s.ListActiveHabits)

			r.Get("/siswa/dashboard", s.StudentDashboard)
			r.Get("/siswa/report", s.ReportForm)
			r.Put("/siswa/report", s.SubmitReport)
			r.Get("/siswa/history", s.StudentHistory)

			r.Get("/wali/dashboard", s.ClassDashboard)
			r.Get("/wali/students/{id}", s.StudentDetail)
			r.Get("/wali/students/{id}/notes", s.StudentNotes)
			r.Post("/wali/students/{id}/notes", s.AddStudentNote)

			r.Get("/admin/overview", s.AdminOverview)
			r.Get("/admin/habits", s.ListAllHabits)
			r.Post("/admin/habits", s.CreateHabit)
			r.Put("/admin/habits/{id}", s.UpdateHabit)
			r.Patch("/admin/habits/{id}/active", s.SetHabitActive)
			r.Post("/admin/accounts", s.CreateAccount)
		})
	})
}

func (s *Server) Run(addr string) error {
	slog.Info("server listening", slog.String("addr", addr))
	return http.ListenAndServe(addr, s.mx)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mx
}

package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/planilla-backend-go/internal/config"
	"github.com/cmlabs-hris/planilla-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth       AuthHandler
	Employer   EmployerHandler
	Employee   EmployeeHandler
	Contractor ContractorHandler
	Absence    AbsenceHandler
	Debt       DebtHandler
	Payroll    PayrollHandler
	Roster     RosterHandler
}

func NewRouter(app config.AppConfig, corsCfg config.CORSConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app.Name),
		slog.String("version", app.Version),
		slog.String("env", app.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(middleware.RequireRole(jwt.RoleOperator))

			r.Post("/auth/logout", h.Auth.Logout)

			r.Route("/employers", func(r chi.Router) {
				r.Get("/", h.Employer.List)
				r.Post("/", h.Employer.Create)

				r.Route("/{employerID}", func(r chi.Router) {
					r.Get("/", h.Employer.GetByID)
					r.Put("/", h.Employer.Update)
					r.Delete("/", h.Employer.Delete)
					r.Get("/regime-summary", h.Employer.RegimeSummary)
					r.Get("/settings", h.Employer.GetSettings)
					r.Put("/settings", h.Employer.UpdateSettings)

					r.Route("/employees", func(r chi.Router) {
						r.Get("/", h.Employee.ListEmployees)
						r.Post("/", h.Employee.CreateEmployee)
						r.Get("/{employeeID}", h.Employee.GetEmployee)
						r.Put("/{employeeID}", h.Employee.UpdateEmployee)
						r.Delete("/{employeeID}", h.Employee.DeleteEmployee)
					})

					r.Route("/contractors", func(r chi.Router) {
						r.Get("/", h.Contractor.ListContractors)
						r.Post("/", h.Contractor.CreateContractor)
						r.Get("/{contractorID}", h.Contractor.GetContractor)
						r.Put("/{contractorID}", h.Contractor.UpdateContractor)
						r.Put("/{contractorID}/suspension", h.Contractor.SetSuspension)
						r.Delete("/{contractorID}", h.Contractor.DeleteContractor)
					})

					r.Get("/absences/summary", h.Absence.MonthlySummary)
					r.Get("/absences/stats", h.Absence.YearlyStats)
					r.Get("/debts", h.Debt.EmployerSummary)

					r.Route("/payroll", func(r chi.Router) {
						r.Post("/preview", h.Payroll.Preview)
						r.Post("/preview/export", h.Payroll.ExportPreview)
						r.Get("/runs", h.Payroll.ListRuns)
						r.Post("/runs", h.Payroll.Commit)
					})

					r.Route("/roster", func(r chi.Router) {
						r.Get("/template", h.Roster.Template)
						r.Post("/import", h.Roster.Import)
					})
				})
			})

			r.Route("/employees/{employeeID}", func(r chi.Router) {
				r.Get("/absences", h.Absence.ListByEmployee)
				r.Post("/absences", h.Absence.Register)
				r.Post("/absences/range", h.Absence.RegisterRange)

				r.Get("/loans", h.Debt.ListLoans)
				r.Post("/loans", h.Debt.CreateLoan)
				r.Get("/advances", h.Debt.ListAdvances)
				r.Post("/advances", h.Debt.CreateAdvance)
				r.Get("/debts", h.Debt.EmployeeSummary)
				r.Get("/payment-capacity", h.Debt.PaymentCapacity)
			})

			r.Put("/absences/{absenceID}/excuse", h.Absence.Excuse)
			r.Delete("/absences/{absenceID}", h.Absence.Delete)

			r.Post("/loans/{loanID}/payments", h.Debt.RecordLoanPayment)
			r.Post("/loans/{loanID}/cancel", h.Debt.CancelLoan)
			r.Post("/advances/{advanceID}/cancel", h.Debt.CancelAdvance)

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/runs/{runID}", h.Payroll.GetRun)
				r.Delete("/runs/{runID}", h.Payroll.DeleteRun)
				r.Post("/runs/{runID}/pay", h.Payroll.MarkPaid)
				r.Get("/runs/{runID}/export", h.Payroll.ExportRun)
				r.Get("/records/{recordID}/payslip", h.Payroll.Payslip)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})
	return r
}

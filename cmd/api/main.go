package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/planilla-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository/store"
	absenceService "github.com/cmlabs-hris/planilla-backend-go/internal/service/absence"
	serviceAuth "github.com/cmlabs-hris/planilla-backend-go/internal/service/auth"
	contractorService "github.com/cmlabs-hris/planilla-backend-go/internal/service/contractor"
	debtService "github.com/cmlabs-hris/planilla-backend-go/internal/service/debt"
	employeeService "github.com/cmlabs-hris/planilla-backend-go/internal/service/employee"
	employerService "github.com/cmlabs-hris/planilla-backend-go/internal/service/employer"
	payrollService "github.com/cmlabs-hris/planilla-backend-go/internal/service/payroll"
	rosterService "github.com/cmlabs-hris/planilla-backend-go/internal/service/roster"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	set, closeDB, err := store.Open(ctx, cfg)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer closeDB()

	if cfg.Admin.PasswordHash == "" {
		log.Fatal("ADMIN_PASSWORD_HASH is required; generate one with `planilla hash-password`")
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(cfg.Admin.Username, cfg.Admin.PasswordHash, JWTService)

	employerSvc := employerService.NewEmployerService(set.Transactor, set.Employers)
	employeeSvc := employeeService.NewEmployeeService(set.Employees, set.Employers)
	contractorSvc := contractorService.NewContractorService(set.Contractors, set.Employers)
	absenceSvc := absenceService.NewAbsenceService(set.Transactor, set.Absences, set.Employees, set.Employers)
	debtSvc := debtService.NewDebtService(set.Transactor, set.Loans, set.Advances, set.Employees, set.Employers)
	payrollSvc := payrollService.NewPayrollService(
		set.Transactor,
		set.Roster(),
		set.Payroll,
		set.Settings,
		set.Employers,
		set.Advances,
	)
	rosterSvc := rosterService.NewRosterService(set.Employers, employeeSvc, contractorSvc)

	router := appHTTP.NewRouter(cfg.App, cfg.CORS, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authService),
		Employer:   appHTTP.NewEmployerHandler(employerSvc, payrollSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Contractor: appHTTP.NewContractorHandler(contractorSvc),
		Absence:    appHTTP.NewAbsenceHandler(absenceSvc),
		Debt:       appHTTP.NewDebtHandler(debtSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Roster:     appHTTP.NewRosterHandler(rosterSvc),
	})

	scheduler := cron.NewScheduler()
	if cfg.Cron.Enabled {
		cron.NewDebtJobs(set.Loans, set.Advances, cfg.Cron.Interval).RegisterJobs(scheduler)
		scheduler.Start(ctx)
		slog.Info("Background jobs started", "jobs", scheduler.Jobs(), "interval", cfg.Cron.Interval)
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	fmt.Printf("Server running at http://localhost%s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Println("Server error:", err)
	}
}

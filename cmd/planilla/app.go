package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/planilla-backend-go/internal/config"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository/store"
	contractorService "github.com/cmlabs-hris/planilla-backend-go/internal/service/contractor"
	employeeService "github.com/cmlabs-hris/planilla-backend-go/internal/service/employee"
	employerService "github.com/cmlabs-hris/planilla-backend-go/internal/service/employer"
	payrollService "github.com/cmlabs-hris/planilla-backend-go/internal/service/payroll"
	rosterService "github.com/cmlabs-hris/planilla-backend-go/internal/service/roster"
	"github.com/spf13/viper"
)

// app holds the services the CLI commands drive.
type app struct {
	cfg       *config.Config
	set       repository.Set
	employers employer.EmployerService
	payroll   payroll.PayrollService
	roster    roster.RosterService
	close     func()
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}

	set, closeDB, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	employees := employeeService.NewEmployeeService(set.Employees, set.Employers)
	contractors := contractorService.NewContractorService(set.Contractors, set.Employers)

	return &app{
		cfg:       cfg,
		set:       set,
		employers: employerService.NewEmployerService(set.Transactor, set.Employers),
		payroll: payrollService.NewPayrollService(
			set.Transactor,
			set.Roster(),
			set.Payroll,
			set.Settings,
			set.Employers,
			set.Advances,
		),
		roster: rosterService.NewRosterService(set.Employers, employees, contractors),
		close:  closeDB,
	}, nil
}

// writeFile writes a generated document, defaulting to its suggested name.
func writeFile(out string, file payroll.FileResponse) (string, error) {
	if out == "" {
		out = file.Filename
	}
	if err := os.WriteFile(out, file.Content, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", out, err)
	}
	return out, nil
}

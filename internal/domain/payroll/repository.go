package payroll

import (
	"context"
	"time"
)

// PayrollRepository stores committed runs and their records.
type PayrollRepository interface {
	// Runs
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetRunByID(ctx context.Context, id string) (PayrollRun, error)
	ListRuns(ctx context.Context, employerID string, year *int) ([]PayrollRun, error)
	MarkRunPaid(ctx context.Context, id string, at time.Time) error
	DeleteRun(ctx context.Context, id string) error

	// Records
	CreateRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetRecordByID(ctx context.Context, id string) (PayrollRecord, error)
	ListRecordsByRun(ctx context.Context, runID string) ([]PayrollRecord, error)
}

type SettingsRepository interface {
	GetSettings(ctx context.Context, employerID string) (Settings, error)
	UpsertSettings(ctx context.Context, settings Settings) (Settings, error)
}

package payroll

import "context"

type PayrollService interface {
	// Runs
	Preview(ctx context.Context, req RunPayrollRequest) (RunResult, error)
	Commit(ctx context.Context, req RunPayrollRequest) (CommitResponse, error)
	GetRun(ctx context.Context, id string) (RunDetailResponse, error)
	ListRuns(ctx context.Context, employerID string, year *int) ([]RunResponse, error)
	MarkPaid(ctx context.Context, id string) (RunResponse, error)
	DeleteRun(ctx context.Context, id string) error

	// Documents
	ExportRun(ctx context.Context, id string) (FileResponse, error)
	ExportPreview(ctx context.Context, req RunPayrollRequest) (FileResponse, error)
	Payslip(ctx context.Context, recordID string) (FileResponse, error)

	// Settings
	GetSettings(ctx context.Context, employerID string) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
	RegimeSummary(ctx context.Context, employerID string) (RegimeSummaryResponse, error)
}

package roster

import (
	"context"
	"io"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
)

type RosterService interface {
	Template(ctx context.Context, employerID string) (payroll.FileResponse, error)

	// Import creates one employee or contractor per template row. A bad row
	// is reported in the result and never aborts the others.
	Import(ctx context.Context, employerID string, workbook io.Reader) (ImportResult, error)
}

package roster

import "github.com/cmlabs-hris/planilla-backend-go/internal/pkg/spreadsheet"

// ImportResult summarises a bulk load. Errors carry the 1-based sheet row.
type ImportResult struct {
	EmployeesCreated   int                    `json:"employees_created"`
	ContractorsCreated int                    `json:"contractors_created"`
	Errors             []spreadsheet.RowError `json:"errors"`
}

// Rows reports how many data rows the import looked at.
func (r ImportResult) Rows() int {
	return r.EmployeesCreated + r.ContractorsCreated + len(r.Errors)
}

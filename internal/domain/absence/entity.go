package absence

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindUnexcusedAbsence Kind = "unexcused-absence"
	KindPermission       Kind = "permission"
	KindVacation         Kind = "vacation"
	KindLeave            Kind = "leave"
)

var Kinds = []Kind{KindUnexcusedAbsence, KindPermission, KindVacation, KindLeave}

func (k Kind) IsValid() bool {
	for _, kind := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// DefaultHoursLost is one full working day.
var DefaultHoursLost = decimal.NewFromInt(8)

type Absence struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Kind       Kind
	Excused    bool
	HoursLost  decimal.Decimal
	Reason     *string
	CreatedAt  time.Time

	// Joined fields
	EmployeeName *string
}

var (
	fullDay = decimal.NewFromInt(1)
	halfDay = decimal.NewFromFloat(0.5)
)

// DaysLost is the worked-day reduction this record causes. Excused records
// and vacation/leave never reduce worked days.
func (a Absence) DaysLost() decimal.Decimal {
	if a.Excused {
		return decimal.Zero
	}
	switch a.Kind {
	case KindUnexcusedAbsence:
		return fullDay
	case KindPermission:
		return halfDay
	}
	return decimal.Zero
}

// InPeriod reports whether the absence falls in the given calendar month.
func (a Absence) InPeriod(month, year int) bool {
	return int(a.Date.Month()) == month && a.Date.Year() == year
}

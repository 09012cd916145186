package loanrequest

import (
	"math"

	"github.com/shopspring/decimal"

	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/pkg/money"
)

// EffectiveAnnualRate is the EA used by the quoting tool.
const EffectiveAnnualRate = 0.261

// Simulation is a non-persisted quote.
type Simulation struct {
	Principal          int64   `json:"principal"`
	Days               int     `json:"days"`
	EffectiveDailyRate float64 `json:"effectiveDailyRate"`
	Interest           int64   `json:"interest"`
	TotalToPay         int64   `json:"totalToPay"`
	Aval               int64   `json:"aval"`
}

// EffectiveDailyRate converts EffectiveAnnualRate to a daily compounding rate.
func EffectiveDailyRate() float64 {
	return math.Pow(1+EffectiveAnnualRate, 1.0/365) - 1
}

// Simulate splits the total payable for principal over days into interest and
// aval (guarantee fee). Pure function.
func Simulate(principal int64, days int) (Simulation, error) {
	if principal <= 0 {
		return Simulation{}, apperror.Validation("principal must be a positive integer")
	}
	if days <= 0 {
		return Simulation{}, apperror.Validation("days must be a positive integer")
	}
	ed := EffectiveDailyRate()
	interest := money.ApplyFactor(principal, decimal.NewFromFloat(ed).Mul(decimal.NewFromInt(int64(days))))
	total := DefaultAmount(principal)
	return Simulation{
		Principal:          principal,
		Days:               days,
		EffectiveDailyRate: ed,
		Interest:           interest,
		TotalToPay:         total,
		Aval:               total - principal - interest,
	}, nil
}

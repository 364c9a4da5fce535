package service

import (
	"math"
	"time"
)

const DefaultHourlyRate = 400.0

// Round2 округляет до копеек, половина от нуля. Используется для часов,
// сумм и итогов одинаково.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

type Payroll struct {
	Rate float64
}

func NewPayroll(rate float64) Payroll {
	if rate <= 0 {
		rate = DefaultHourlyRate
	}
	return Payroll{Rate: rate}
}

// Hours: отработанное время в часах с точностью до сотых
func (p Payroll) Hours(start, end time.Time) float64 {
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	return Round2(d.Hours())
}

func (p Payroll) Pay(hours float64) float64 {
	return Round2(hours * p.Rate)
}

func (p Payroll) Compute(start, end time.Time) (hours, pay float64) {
	hours = p.Hours(start, end)
	return hours, p.Pay(hours)
}

package roi

import "math"

// ServiceMonthlyCost is the fixed monthly consulting fee the savings
// math compares against.
const ServiceMonthlyCost = 2500.0

const weeksPerYear = 52

// Result is one ROI computation.
type Result struct {
	HoursPerWeek    float64
	HourlyRate      float64
	WorkType        string
	AnnualLaborCost float64
	AnnualSavings   float64
	ROIPercent      float64
	// PaybackMonths is 0 when the savings never cover the fee.
	PaybackMonths int
}

// Calculate derives annual labor cost, savings against the fixed
// service fee, ROI percentage, and payback period. hoursPerWeek must be
// positive; rate is the explicit or inferred hourly rate.
func Calculate(hoursPerWeek, hourlyRate float64, workType string) Result {
	annualLabor := hoursPerWeek * hourlyRate * weeksPerYear
	annualService := ServiceMonthlyCost * 12
	savings := annualLabor - annualService

	result := Result{
		HoursPerWeek:    hoursPerWeek,
		HourlyRate:      hourlyRate,
		WorkType:        workType,
		AnnualLaborCost: annualLabor,
	}

	if savings <= 0 {
		return result
	}

	result.AnnualSavings = savings
	result.ROIPercent = math.Round(savings / annualService * 100)
	result.PaybackMonths = int(math.Ceil(annualService / (savings / 12)))
	return result
}

package roi

import "testing"

func TestCalculatePositiveSavings(t *testing.T) {
	result := Calculate(20, 45, "technical")
	if result.AnnualLaborCost != 46800 {
		t.Errorf("AnnualLaborCost = %v, want 46800", result.AnnualLaborCost)
	}
	if result.AnnualSavings != 16800 {
		t.Errorf("AnnualSavings = %v, want 16800", result.AnnualSavings)
	}
	if result.ROIPercent != 56 {
		t.Errorf("ROIPercent = %v, want 56", result.ROIPercent)
	}
	if result.PaybackMonths != 22 {
		t.Errorf("PaybackMonths = %v, want 22", result.PaybackMonths)
	}
	if result.WorkType != "technical" {
		t.Errorf("WorkType = %q", result.WorkType)
	}
}

func TestCalculateSavingsNeverNegative(t *testing.T) {
	// 15h at $35 is below the annual service cost.
	result := Calculate(15, 35, "reporting & analytics")
	if result.AnnualLaborCost != 27300 {
		t.Errorf("AnnualLaborCost = %v, want 27300", result.AnnualLaborCost)
	}
	if result.AnnualSavings != 0 || result.ROIPercent != 0 || result.PaybackMonths != 0 {
		t.Errorf("expected zeroed savings fields, got %+v", result)
	}
}

func TestCalculateBreakEven(t *testing.T) {
	// Labor cost exactly equal to the annual service cost.
	result := Calculate(30000.0/52.0, 1, "general operations")
	if result.AnnualSavings != 0 || result.PaybackMonths != 0 {
		t.Errorf("expected zeroed savings at break-even, got %+v", result)
	}
}

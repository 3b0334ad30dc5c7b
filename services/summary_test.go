package services

import (
	"strings"
	"testing"

	"vehicle-reconciler/models"
)

func TestSummaryCounts(t *testing.T) {
	svc := NewSummaryService(newTestLogger())

	records := []*models.SourceRecord{
		{Results: map[string]models.ProviderResult{
			"Autotrader": {Status: models.StatusFound},
			"Carsguide":  {Status: models.StatusNotFound},
		}},
		{Results: map[string]models.ProviderResult{
			"Autotrader": {Status: models.StatusFound},
			"Carsguide":  {Status: models.StatusMismatched},
		}},
		{Results: map[string]models.ProviderResult{
			"Autotrader": {Status: models.StatusNotSearched},
			"Carsguide":  {Status: models.StatusNotSearched},
		}},
	}

	s := svc.Generate(records, []string{"Autotrader", "Carsguide"})

	if s.Total != 3 {
		t.Errorf("Total: got %d, want 3", s.Total)
	}
	if s.ByStatus["Autotrader"][models.StatusFound] != 2 {
		t.Errorf("Autotrader Found: got %d, want 2", s.ByStatus["Autotrader"][models.StatusFound])
	}
	if s.ByStatus["Carsguide"][models.StatusMismatched] != 1 {
		t.Errorf("Carsguide Mismatched: got %d, want 1", s.ByStatus["Carsguide"][models.StatusMismatched])
	}
	if s.ByStatus["Carsguide"][models.StatusNotSearched] != 1 {
		t.Errorf("Carsguide Not Searched: got %d, want 1", s.ByStatus["Carsguide"][models.StatusNotSearched])
	}
}

func TestSummaryEmptyInput(t *testing.T) {
	svc := NewSummaryService(newTestLogger())

	s := svc.Generate(nil, []string{"Autotrader", "Carsguide"})
	if s.Total != 0 {
		t.Errorf("Total: got %d, want 0", s.Total)
	}
	if len(s.ByStatus["Autotrader"]) != 0 {
		t.Errorf("expected no status counts, got %v", s.ByStatus["Autotrader"])
	}
}

func TestFormatListingDetails(t *testing.T) {
	listing := &models.Listing{
		Status:  "live",
		Make:    "Toyota",
		Model:   "Corolla",
		StockNo: "2021U4821",
		Vehicle: models.Specs{Seats: "5", TransmissionType: "Automatic"},
		Price:   models.PriceGroup{AdvertisedPrice: "20000"},
	}

	out := FormatListingDetails(listing, "Autotrader")
	for _, want := range []string{"Stock #2021U4821", "AUTOTRADER", "Toyota", "$20000", "Automatic", "SPECIFICATIONS"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted details missing %q", want)
		}
	}
}

func TestFormatListingDetailsNil(t *testing.T) {
	if got := FormatListingDetails(nil, "Autotrader"); got != "No vehicle data available" {
		t.Errorf("got %q", got)
	}
}

func TestFormatListingDetailsTruncatesDescription(t *testing.T) {
	listing := &models.Listing{StockNo: "X", Description: makeLong(600)}

	out := FormatListingDetails(listing, "Autotrader")
	if !strings.Contains(out, "[Description truncated]") {
		t.Error("long description was not truncated")
	}
}

func makeLong(n int) string {
	return strings.Repeat("x", n)
}

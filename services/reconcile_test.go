package services

import (
	"reflect"
	"testing"

	"vehicle-reconciler/models"
	"vehicle-reconciler/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func matchedRecord() *models.SourceRecord {
	return &models.SourceRecord{
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         "2021",
		StockNo:      "U4821",
		Price:        "20,000",
		KM:           "45,000",
		Transmission: "Automatic",
		Fuel:         "Petrol",
		Seats:        "5",
		Doors:        "4",
	}
}

func liveListing() *models.Listing {
	return &models.Listing{
		Status: "live",
		Make:   "Toyota",
		Model:  "Corolla",
		Vehicle: models.Specs{
			FuelType:         "Petrol",
			TransmissionType: "Automatic",
			Seats:            "5",
			Doors:            "4",
		},
		Price: models.PriceGroup{AdvertisedPrice: "20000"},
	}
}

func TestReconcileFound(t *testing.T) {
	r := NewReconciler(newTestLogger())

	status, mismatches := r.Reconcile(matchedRecord(), liveListing())
	if status != models.StatusFound {
		t.Errorf("status: got %q, want %q", status, models.StatusFound)
	}
	if len(mismatches) != 0 {
		t.Errorf("expected no mismatches, got %v", mismatches)
	}
}

func TestReconcileNotFound(t *testing.T) {
	r := NewReconciler(newTestLogger())

	status, mismatches := r.Reconcile(matchedRecord(), nil)
	if status != models.StatusNotFound {
		t.Errorf("status: got %q, want %q", status, models.StatusNotFound)
	}
	if len(mismatches) != 0 {
		t.Errorf("expected no mismatches for missing listing, got %v", mismatches)
	}
}

func TestReconcilePriceTolerance(t *testing.T) {
	r := NewReconciler(newTestLogger())

	tests := []struct {
		name       string
		apiPrice   string
		wantStatus string
		wantNote   string
	}{
		{"within tolerance", "20050", models.StatusFound, ""},
		{"exactly at tolerance", "20100", models.StatusFound, ""},
		{"beyond tolerance", "20200", models.StatusMismatched, "Price: CSV=20000, API=20200"},
		{"unparsable api value", "call us", models.StatusMismatched, "Price: Couldn't compare"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := liveListing()
			listing.Price.AdvertisedPrice = models.FlexString(tt.apiPrice)

			status, mismatches := r.Reconcile(matchedRecord(), listing)
			if status != tt.wantStatus {
				t.Errorf("status: got %q, want %q", status, tt.wantStatus)
			}
			if tt.wantNote == "" {
				if len(mismatches) != 0 {
					t.Errorf("expected no mismatches, got %v", mismatches)
				}
				return
			}
			if len(mismatches) != 1 || mismatches[0] != tt.wantNote {
				t.Errorf("mismatches: got %v, want [%q]", mismatches, tt.wantNote)
			}
		})
	}
}

func TestReconcileUnparsableSourcePrice(t *testing.T) {
	r := NewReconciler(newTestLogger())

	rec := matchedRecord()
	rec.Price = "POA"

	status, mismatches := r.Reconcile(rec, liveListing())
	if status != models.StatusMismatched {
		t.Errorf("status: got %q, want %q", status, models.StatusMismatched)
	}
	if len(mismatches) != 1 || mismatches[0] != "Price: Couldn't compare" {
		t.Errorf("mismatches: got %v", mismatches)
	}
}

func TestReconcileStatusShortCircuit(t *testing.T) {
	r := NewReconciler(newTestLogger())

	tests := []struct {
		apiStatus string
		want      string
	}{
		{"Sold", models.StatusSold},
		{"sold", models.StatusSold},
		{"On Offer", models.StatusOnOffer},
		{"ON OFFER", models.StatusOnOffer},
	}

	for _, tt := range tests {
		listing := liveListing()
		listing.Status = tt.apiStatus
		// Field differences must be ignored entirely.
		listing.Model = "Camry"
		listing.Price.AdvertisedPrice = "99999"

		status, mismatches := r.Reconcile(matchedRecord(), listing)
		if status != tt.want {
			t.Errorf("status %q: got %q, want %q", tt.apiStatus, status, tt.want)
		}
		if len(mismatches) != 0 {
			t.Errorf("status %q: expected empty mismatch list, got %v", tt.apiStatus, mismatches)
		}
	}
}

func TestReconcileUnknownStatusComparesFields(t *testing.T) {
	r := NewReconciler(newTestLogger())

	listing := liveListing()
	listing.Status = "pending"
	listing.Model = "Camry"

	status, mismatches := r.Reconcile(matchedRecord(), listing)
	if status != models.StatusMismatched {
		t.Errorf("status: got %q, want %q", status, models.StatusMismatched)
	}
	if len(mismatches) != 1 || mismatches[0] != "Model: CSV=Corolla, API=Camry" {
		t.Errorf("mismatches: got %v", mismatches)
	}
}

func TestReconcileSkipsEmptySourceFields(t *testing.T) {
	r := NewReconciler(newTestLogger())

	// Only Model is populated; a differing fuel type on the listing must
	// not be reported.
	rec := &models.SourceRecord{Model: "Corolla"}
	listing := liveListing()
	listing.Vehicle.FuelType = "Diesel"

	status, mismatches := r.Reconcile(rec, listing)
	if status != models.StatusFound {
		t.Errorf("status: got %q, want %q", status, models.StatusFound)
	}
	if len(mismatches) != 0 {
		t.Errorf("expected no mismatches, got %v", mismatches)
	}
}

func TestReconcileCaseInsensitiveComparison(t *testing.T) {
	r := NewReconciler(newTestLogger())

	rec := matchedRecord()
	rec.Transmission = "AUTOMATIC"
	rec.Fuel = "petrol"

	status, _ := r.Reconcile(rec, liveListing())
	if status != models.StatusFound {
		t.Errorf("status: got %q, want %q", status, models.StatusFound)
	}
}

func TestReconcileDeterministic(t *testing.T) {
	r := NewReconciler(newTestLogger())

	rec := matchedRecord()
	rec.Fuel = "Diesel"
	rec.Price = "25,000"
	listing := liveListing()

	s1, m1 := r.Reconcile(rec, listing)
	s2, m2 := r.Reconcile(rec, listing)
	if s1 != s2 || !reflect.DeepEqual(m1, m2) {
		t.Errorf("outcomes differ across calls: (%q, %v) vs (%q, %v)", s1, m1, s2, m2)
	}
}

func TestReconcileDoesNotMutateRecord(t *testing.T) {
	r := NewReconciler(newTestLogger())

	rec := matchedRecord()
	before := *rec

	listing := liveListing()
	listing.Model = "Camry"
	r.Reconcile(rec, listing)

	if !reflect.DeepEqual(before, *rec) {
		t.Error("Reconcile mutated the source record")
	}
}

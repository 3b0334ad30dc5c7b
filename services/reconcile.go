package services

import (
	"fmt"
	"strconv"
	"strings"

	"vehicle-reconciler/models"
	"vehicle-reconciler/utils"
)

// priceTolerance is the allowed advertised-price drift, in whole currency
// units. Differences inside the window are treated as rounding/fee noise.
const priceTolerance = 100

// Reconciler classifies a (source record, listing) pair into a match status
// plus field-level discrepancy notes. It is pure: no network, no state, the
// same inputs always produce the same outcome.
type Reconciler struct {
	logger *utils.Logger
}

// NewReconciler creates a Reconciler with the given logger.
func NewReconciler(logger *utils.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Reconcile compares rec against listing. A nil listing is Not Found. A
// non-live listing status short-circuits to Sold / On Offer without any
// field comparison. Otherwise the fixed field map is compared and any
// discrepancy is reported as "Field: CSV=<x>, API=<y>".
//
// Input fields of rec are never mutated.
func (r *Reconciler) Reconcile(rec *models.SourceRecord, listing *models.Listing) (string, []string) {
	if listing == nil {
		return models.StatusNotFound, nil
	}

	if status := strings.ToLower(strings.TrimSpace(listing.Status)); status != "" && status != "live" {
		switch status {
		case "sold":
			return models.StatusSold, nil
		case "on offer":
			return models.StatusOnOffer, nil
		}
		// Unknown non-live statuses fall through to field comparison.
	}

	var mismatched []string

	checks := []struct {
		field  string
		source string
		api    string
	}{
		{"Fuel", rec.Fuel, listing.Vehicle.FuelType},
		{"Model", rec.Model, listing.Model},
		{"Seats", rec.Seats, listing.Vehicle.Seats.String()},
		{"Doors", rec.Doors, listing.Vehicle.Doors.String()},
		{"Transmission", rec.Transmission, listing.Vehicle.TransmissionType},
	}

	for _, c := range checks {
		if note, ok := compareText(c.field, c.source, c.api); !ok {
			mismatched = append(mismatched, note)
		}
	}

	if note, ok := comparePrice(rec.Price, listing.Price.AdvertisedPrice.String()); !ok {
		mismatched = append(mismatched, note)
	}

	if len(mismatched) > 0 {
		r.logger.Debug("[reconcile] Stock %s: %d field(s) mismatched", rec.StockKey(), len(mismatched))
		return models.StatusMismatched, mismatched
	}
	return models.StatusFound, nil
}

// compareText compares one field pair as case-insensitive trimmed strings.
// A field absent on either side is skipped, never a discrepancy.
func compareText(field, source, api string) (string, bool) {
	source = strings.TrimSpace(source)
	api = strings.TrimSpace(api)
	if source == "" || api == "" {
		return "", true
	}
	if strings.EqualFold(source, api) {
		return "", true
	}
	return fmt.Sprintf("%s: CSV=%s, API=%s", field, source, api), false
}

// comparePrice parses both sides as whole amounts (thousands separators
// stripped) and reports a discrepancy only when the absolute difference
// exceeds the tolerance. A parse failure on either side is itself a
// discrepancy.
func comparePrice(source, api string) (string, bool) {
	source = strings.TrimSpace(source)
	api = strings.TrimSpace(api)
	if source == "" || api == "" {
		return "", true
	}

	sourcePrice, sErr := parseAmount(source)
	apiPrice, aErr := parseAmount(api)
	if sErr != nil || aErr != nil {
		return "Price: Couldn't compare", false
	}

	diff := sourcePrice - apiPrice
	if diff < 0 {
		diff = -diff
	}
	if diff > priceTolerance {
		return fmt.Sprintf("Price: CSV=%d, API=%d", sourcePrice, apiPrice), false
	}
	return "", true
}

func parseAmount(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(s, ",", ""))
}

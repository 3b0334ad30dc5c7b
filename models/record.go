package models

// Match statuses written into the per-provider result columns. A finished
// batch always carries exactly one of these per (record, provider) pair.
const (
	StatusFound       = "Found"
	StatusMismatched  = "Mismatched"
	StatusNotFound    = "Not Found"
	StatusSold        = "Sold"
	StatusOnOffer     = "On Offer"
	StatusAPIError    = "API Error"
	StatusNotSearched = "Not Searched"
	StatusError       = "Error"
)

// ProviderResult holds the reconciliation outcome for one provider.
type ProviderResult struct {
	Status string
	Notes  string
	URL    string
}

// SourceRecord is one inventory row to be checked against live listings.
// The typed fields are the ones the search and reconciliation logic reads;
// an empty string means the column was absent or blank. Raw preserves every
// input column verbatim so the output round-trips unknown columns.
//
// Input fields are never mutated after loading; only Results is written.
type SourceRecord struct {
	Make         string
	Model        string
	Year         string
	StockNo      string
	Price        string
	KM           string
	Transmission string
	Fuel         string
	Seats        string
	Doors        string

	Raw map[string]string

	// Results is keyed by provider name ("Autotrader", "Carsguide").
	Results map[string]ProviderResult
}

// StockKey returns the provider-side stock number, the concatenation of
// Year and StockNo. It is empty when either part is missing.
func (r *SourceRecord) StockKey() string {
	if r.Year == "" || r.StockNo == "" {
		return ""
	}
	return r.Year + r.StockNo
}

// SetResult records the outcome for one provider.
func (r *SourceRecord) SetResult(provider string, res ProviderResult) {
	if r.Results == nil {
		r.Results = make(map[string]ProviderResult)
	}
	r.Results[provider] = res
}

// Result returns the outcome recorded for a provider, if any.
func (r *SourceRecord) Result(provider string) (ProviderResult, bool) {
	res, ok := r.Results[provider]
	return res, ok
}

package services

import (
	"fmt"
	"strings"

	"vehicle-reconciler/config"
	"vehicle-reconciler/models"
	"vehicle-reconciler/observability"
	"vehicle-reconciler/storage"
	"vehicle-reconciler/utils"
)

// Searcher is the provider-client surface the orchestrator depends on.
type Searcher interface {
	Name() string
	Domain() string
	Search(stockNo, makeHint string, rec *models.SourceRecord) (*models.SearchResponse, error)
}

// Orchestrator drives the batch flow: one record at a time, both providers
// in order, strictly sequential so the human-pacing anti-bot posture holds.
// Every record leaves with a status for every provider; a failure in one
// record never aborts the batch.
type Orchestrator struct {
	providers  []Searcher
	reconciler *Reconciler
	pacer      *utils.Pacer
	cfg        *config.Config
	logger     *utils.Logger

	// rawWriter persists untouched provider payloads when save-raw is on.
	rawWriter storage.RawResponseWriter
}

// NewOrchestrator creates an Orchestrator over the given providers, in the
// order they should be queried.
func NewOrchestrator(providers []Searcher, reconciler *Reconciler, cfg *config.Config, logger *utils.Logger) *Orchestrator {
	return &Orchestrator{
		providers:  providers,
		reconciler: reconciler,
		pacer:      utils.NewPacer(logger),
		cfg:        cfg,
		logger:     logger,
	}
}

// SetRawWriter enables raw provider-response persistence. Write failures
// are logged and never fail a lookup.
func (o *Orchestrator) SetRawWriter(w storage.RawResponseWriter) {
	o.rawWriter = w
}

// Run processes records in input order, writing per-provider results into
// each record.
func (o *Orchestrator) Run(records []*models.SourceRecord) {
	for i, rec := range records {
		o.processRecord(i, rec)

		o.logger.Info("Processed %d/%d — %s %s (Stock: %s): %s",
			i+1, len(records), rec.Make, rec.Model, rec.StockKey(), o.statusLine(rec))

		o.pacer.Pause(o.cfg.StepDelayMinMs, o.cfg.StepDelayMaxMs)
	}
}

// processRecord is the outermost failure boundary for one record: any
// panic is converted into an Error status for every provider so the record
// is never left half-written.
func (o *Orchestrator) processRecord(index int, rec *models.SourceRecord) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Error processing row %d: %v", index+1, r)
			for _, p := range o.providers {
				rec.SetResult(p.Name(), models.ProviderResult{
					Status: models.StatusError,
					Notes:  fmt.Sprintf("Error processing: %v", r),
				})
			}
		}
	}()

	if rec.StockKey() == "" {
		o.logger.Warn("Row %d: Missing Year or StockNo, skipping", index+1)
		for _, p := range o.providers {
			rec.SetResult(p.Name(), models.ProviderResult{
				Status: models.StatusNotSearched,
				Notes:  "Missing Year or StockNo",
			})
		}
		return
	}

	o.logger.Info("Processing row %d: %s %s %s, Stock: %s",
		index+1, rec.Year, rec.Make, rec.Model, rec.StockKey())

	for i, p := range o.providers {
		if i > 0 {
			o.pacer.Pause(o.cfg.StepDelayMinMs, o.cfg.StepDelayMaxMs)
		}
		result := o.lookupProvider(p, rec)
		rec.SetResult(p.Name(), result)
		observability.LookupsTotal.WithLabelValues(p.Name(), result.Status).Inc()
	}
}

// lookupProvider runs one provider search plus reconciliation. Transport
// and bootstrap failures are downgraded to an API Error status here; they
// never propagate further.
func (o *Orchestrator) lookupProvider(p Searcher, rec *models.SourceRecord) models.ProviderResult {
	resp, err := p.Search(rec.StockKey(), rec.Make, rec)
	if err != nil {
		o.logger.Error("Failed to retrieve %s data for stock number %s: %v", p.Name(), rec.StockKey(), err)
		return models.ProviderResult{
			Status: models.StatusAPIError,
			Notes:  fmt.Sprintf("Failed to retrieve data from %s API", p.Name()),
		}
	}

	if resp.Empty() {
		o.logger.Warn("No vehicle found in %s with stock number: %s", p.Name(), rec.StockKey())
		return models.ProviderResult{
			Status: models.StatusNotFound,
			Notes:  fmt.Sprintf("Vehicle not found in %s API", p.Name()),
		}
	}

	if o.rawWriter != nil {
		if err := o.rawWriter.SaveRaw(p.Name(), rec.StockKey(), resp); err != nil {
			o.logger.Error("Failed to save raw %s response: %v", p.Name(), err)
		}
	}

	listing := resp.First()
	status, mismatches := o.reconciler.Reconcile(rec, listing)

	return models.ProviderResult{
		Status: status,
		Notes:  strings.Join(mismatches, "; "),
		URL:    ListingURL(listing, p.Domain()),
	}
}

func (o *Orchestrator) statusLine(rec *models.SourceRecord) string {
	parts := make([]string, 0, len(o.providers))
	for _, p := range o.providers {
		if res, ok := rec.Result(p.Name()); ok {
			parts = append(parts, fmt.Sprintf("%s=%s", p.Name(), res.Status))
		}
	}
	return strings.Join(parts, ", ")
}

// ListingURL derives a listing's public URL by prefixing its relative path
// with the provider domain. A listing without a path yields an empty URL.
func ListingURL(listing *models.Listing, domain string) string {
	if listing == nil {
		return ""
	}
	path := listing.Path()
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	return strings.TrimSuffix(domain, "/") + "/" + strings.TrimPrefix(path, "/")
}

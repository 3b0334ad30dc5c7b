package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString decodes a JSON value that may arrive as a string, a number or
// null. The listings backend is not consistent about numeric fields (seats,
// doors, odometer), so everything loosely typed lands here as its text form.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flex value %q: %w", b, err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// SearchResponse is the raw payload returned by the marketplace search
// endpoint: { "data": [ { "_source": {...} }, ... ] }.
type SearchResponse struct {
	Data []SearchHit `json:"data"`
}

// SearchHit wraps one search result document.
type SearchHit struct {
	Source Listing `json:"_source"`
}

// First returns the first listing in provider order, or nil when the
// response is empty. Provider order is the only ranking applied.
func (r *SearchResponse) First() *Listing {
	if r == nil || len(r.Data) == 0 {
		return nil
	}
	return &r.Data[0].Source
}

// Empty reports whether the search returned no listings.
func (r *SearchResponse) Empty() bool {
	return r == nil || len(r.Data) == 0
}

// Listing is one marketplace search-result entry for a vehicle. It is a
// read-only snapshot of the provider response.
type Listing struct {
	Status        string     `json:"status"`
	Make          string     `json:"make"`
	Model         string     `json:"model"`
	Variant       string     `json:"variant"`
	ManuYear      FlexString `json:"manu_year"`
	ColourBody    string     `json:"colour_body"`
	Odometer      FlexString `json:"odometer"`
	Rego          string     `json:"rego"`
	VIN           string     `json:"vin"`
	LocationCity  string     `json:"location_city"`
	LocationState string     `json:"location_state"`
	URL           string     `json:"url"`
	URLCG         string     `json:"url_cg"`
	StockNo       string     `json:"stock_no"`
	Description   string     `json:"description"`
	Vehicle       Specs      `json:"vehicle"`
	Price         PriceGroup `json:"price"`
}

// Specs is the nested specification group of a listing.
type Specs struct {
	BodyType         string     `json:"body_type"`
	TransmissionType string     `json:"transmission_type"`
	FuelType         string     `json:"fuel_type"`
	EngineSize       FlexString `json:"engine_size"`
	Cylinders        FlexString `json:"cylinders"`
	DriveType        string     `json:"drive_type"`
	Seats            FlexString `json:"seats"`
	Doors            FlexString `json:"doors"`
}

// PriceGroup is the nested price group of a listing.
type PriceGroup struct {
	AdvertisedPrice FlexString `json:"advertised_price"`
}

// Path returns the site-relative URL path of the listing, preferring the
// provider-specific url field and falling back to url_cg.
func (l *Listing) Path() string {
	if l.URL != "" {
		return l.URL
	}
	return l.URLCG
}

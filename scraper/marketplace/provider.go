package marketplace

import "vehicle-reconciler/config"

// ProviderConfig describes one marketplace frontend. Both providers share
// the same listings backend; they differ in the session they bootstrap, the
// headers they present and the query decoration they require.
type ProviderConfig struct {
	// Name is the provider label, also used as the result column prefix.
	Name string

	// HomeURL is fetched once per lookup to acquire session cookies.
	HomeURL string

	// Domain prefixes a listing's relative path to form its public URL.
	Domain string

	// SearchURL is the listings search endpoint.
	SearchURL string

	// Source discriminates this provider on the shared backend ("" for the
	// backend's native provider).
	Source string

	// ExtraHeaders are merged into every search request.
	ExtraHeaders map[string]string

	// AltUserAgent is presented after a blocked request, as part of the
	// anti-bot recovery sequence.
	AltUserAgent string

	// DecoratePrimary adds the browse-style query parameters (ipLookup,
	// sorting variation, pagination) to the primary keyed query. The
	// fallback query always carries them.
	DecoratePrimary bool

	// MakeHintPrimary includes the make hint in the primary query to
	// disambiguate results on the shared backend.
	MakeHintPrimary bool
}

// Autotrader returns the provider configuration for the AutoTrader frontend.
func Autotrader(cfg *config.Config) ProviderConfig {
	return ProviderConfig{
		Name:      "Autotrader",
		HomeURL:   cfg.AutotraderHome,
		Domain:    cfg.AutotraderDomain,
		SearchURL: cfg.SearchURL,
		ExtraHeaders: map[string]string{
			"referer": "https://www.autotrader.com.au/cars/search",
		},
		AltUserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36 Edg/139.0.0.0",
	}
}

// Carsguide returns the provider configuration for the Carsguide frontend.
// Carsguide rides on the same listings backend, discriminated by source=CG,
// and its requests cross sites from the carsguide.com.au origin.
func Carsguide(cfg *config.Config) ProviderConfig {
	return ProviderConfig{
		Name:      "Carsguide",
		HomeURL:   cfg.CarsguideHome,
		Domain:    cfg.CarsguideDomain,
		SearchURL: cfg.SearchURL,
		Source:    "CG",
		ExtraHeaders: map[string]string{
			"referrer":       "https://www.carsguide.com.au/",
			"sec-fetch-site": "cross-site",
		},
		AltUserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36",
		DecoratePrimary: true,
		MakeHintPrimary: true,
	}
}

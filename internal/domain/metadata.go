package domain

// CastMember is an actor credit on a series.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
}

// SeriesMetadata is a descriptive snapshot of a series as returned by the
// metadata lookup service. The local cache stores the last successfully
// fetched version as an offline fallback; it is global, not per-user.
type SeriesMetadata struct {
	SeriesID    int          `json:"series_id"`
	Title       string       `json:"title"`
	PosterPath  string       `json:"poster_path,omitempty"`
	Synopsis    string       `json:"synopsis,omitempty"`
	ReleaseDate string       `json:"release_date,omitempty"`
	// BlurHash is a placeholder hash computed when the poster is cached
	// locally, empty until then.
	BlurHash string       `json:"blur_hash,omitempty"`
	Cast     []CastMember `json:"cast,omitempty"`
	// WatchProviders maps a region code to provider names.
	WatchProviders map[string][]string `json:"watch_providers,omitempty"`
}

// SeriesSearchResult is a single hit from a free-text series search.
type SeriesSearchResult struct {
	SeriesID   int    `json:"series_id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path,omitempty"`
}

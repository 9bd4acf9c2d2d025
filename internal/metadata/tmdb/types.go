package tmdb

import "github.com/episodeo/episodeo-server/internal/domain"

// maxCastMembers bounds how many credits are kept per series.
const maxCastMembers = 20

type seriesDetailsResponse struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Overview     string           `json:"overview"`
	PosterPath   string           `json:"poster_path"`
	FirstAirDate string           `json:"first_air_date"`
	Credits      creditsBlock     `json:"credits"`
	Providers    providersBlock   `json:"watch/providers"`
}

type creditsBlock struct {
	Cast []castEntry `json:"cast"`
}

type castEntry struct {
	Name      string `json:"name"`
	Character string `json:"character"`
}

type providersBlock struct {
	Results map[string]regionProviders `json:"results"`
}

type regionProviders struct {
	Flatrate []providerEntry `json:"flatrate"`
	Rent     []providerEntry `json:"rent"`
	Buy      []providerEntry `json:"buy"`
}

type providerEntry struct {
	ProviderName string `json:"provider_name"`
}

type searchResponse struct {
	Results []searchEntry `json:"results"`
}

type searchEntry struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PosterPath string `json:"poster_path"`
}

// toDomain flattens the TMDB response into a metadata snapshot. Providers
// from all offer types are merged per region, deduplicated, streaming
// offers first.
func (r *seriesDetailsResponse) toDomain() *domain.SeriesMetadata {
	meta := &domain.SeriesMetadata{
		SeriesID:    r.ID,
		Title:       r.Name,
		PosterPath:  r.PosterPath,
		Synopsis:    r.Overview,
		ReleaseDate: r.FirstAirDate,
	}

	for i, c := range r.Credits.Cast {
		if i >= maxCastMembers {
			break
		}
		meta.Cast = append(meta.Cast, domain.CastMember{
			Name:      c.Name,
			Character: c.Character,
		})
	}

	if len(r.Providers.Results) > 0 {
		meta.WatchProviders = make(map[string][]string, len(r.Providers.Results))
		for region, offers := range r.Providers.Results {
			seen := map[string]bool{}
			var names []string
			for _, group := range [][]providerEntry{offers.Flatrate, offers.Rent, offers.Buy} {
				for _, p := range group {
					if p.ProviderName == "" || seen[p.ProviderName] {
						continue
					}
					seen[p.ProviderName] = true
					names = append(names, p.ProviderName)
				}
			}
			if len(names) > 0 {
				meta.WatchProviders[region] = names
			}
		}
	}

	return meta
}

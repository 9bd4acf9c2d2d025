package domain

// List is the closed union of the two list variants the app knows about:
// status-derived SystemLists and user-created CustomLists. Consumers are
// expected to type-switch over the two concrete types; the unexported
// method keeps the set of variants closed.
type List interface {
	// ListID returns the stable identifier: the status key for a
	// SystemList, the document ID for a CustomList.
	ListID() string
	// ListName returns the display name.
	ListName() string
	// Members returns the series IDs in display order.
	Members() []int

	isList()
}

// SystemList is a grouping of series derived from watch statuses.
// It is recomputed on every reconciliation pass and never persisted.
type SystemList struct {
	Status    WatchStatus `json:"status"`
	Name      string      `json:"name"`
	SeriesIDs []int       `json:"series_ids"`
}

func (l SystemList) ListID() string   { return string(l.Status) }
func (l SystemList) ListName() string { return l.Name }
func (l SystemList) Members() []int   { return l.SeriesIDs }
func (l SystemList) isList()          {}

// CustomList is a user-created, persisted collection of series.
type CustomList struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_id"`
	IsPublic  bool   `json:"is_public"`
	SeriesIDs []int  `json:"series_ids"`
}

func (l CustomList) ListID() string   { return l.ID }
func (l CustomList) ListName() string { return l.Name }
func (l CustomList) Members() []int   { return l.SeriesIDs }
func (l CustomList) isList()          {}

// Contains reports whether the list already holds the given series.
func (l CustomList) Contains(seriesID int) bool {
	for _, id := range l.SeriesIDs {
		if id == seriesID {
			return true
		}
	}
	return false
}

// WithMember returns a copy with seriesID appended, or the list unchanged
// when the series is already a member. Membership is a set; display order
// is insertion order.
func (l CustomList) WithMember(seriesID int) CustomList {
	if l.Contains(seriesID) {
		return l
	}
	ids := make([]int, 0, len(l.SeriesIDs)+1)
	ids = append(ids, l.SeriesIDs...)
	ids = append(ids, seriesID)
	l.SeriesIDs = ids
	return l
}

// WithoutMember returns a copy with seriesID removed. Removing an absent
// member is a no-op.
func (l CustomList) WithoutMember(seriesID int) CustomList {
	ids := make([]int, 0, len(l.SeriesIDs))
	for _, id := range l.SeriesIDs {
		if id != seriesID {
			ids = append(ids, id)
		}
	}
	l.SeriesIDs = ids
	return l
}

package domain

import "testing"

func TestWatchStatusValid(t *testing.T) {
	tests := []struct {
		status WatchStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusWatching, true},
		{StatusCompleted, true},
		{StatusDropped, true},
		{StatusNone, false},
		{WatchStatus("paused"), false},
		{WatchStatus(""), false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestSeriesStatusValidate(t *testing.T) {
	ok := 7
	low := 0
	high := 11

	tests := []struct {
		name    string
		status  SeriesStatus
		wantErr bool
	}{
		{"valid unrated", SeriesStatus{SeriesID: 1, Status: StatusWatching}, false},
		{"valid rated", SeriesStatus{SeriesID: 1, Status: StatusCompleted, Rating: &ok}, false},
		{"none not persistable", SeriesStatus{SeriesID: 1, Status: StatusNone}, true},
		{"rating too low", SeriesStatus{SeriesID: 1, Status: StatusWatching, Rating: &low}, true},
		{"rating too high", SeriesStatus{SeriesID: 1, Status: StatusWatching, Rating: &high}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.status.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCustomListMembership(t *testing.T) {
	l := CustomList{ID: "l1", Name: "L", SeriesIDs: []int{1, 2}}

	added := l.WithMember(3)
	if got := added.SeriesIDs; len(got) != 3 || got[2] != 3 {
		t.Errorf("WithMember appended %v", got)
	}
	if got := l.WithMember(2).SeriesIDs; len(got) != 2 {
		t.Errorf("WithMember duplicate grew membership to %v", got)
	}

	removed := added.WithoutMember(2)
	if removed.Contains(2) {
		t.Error("WithoutMember left the member in place")
	}
	if got := removed.WithoutMember(99).SeriesIDs; len(got) != 2 {
		t.Errorf("WithoutMember absent changed membership to %v", got)
	}

	// The original is never mutated.
	if len(l.SeriesIDs) != 2 {
		t.Errorf("original membership changed: %v", l.SeriesIDs)
	}
}

func TestListVariantIdentity(t *testing.T) {
	sys := SystemList{Status: StatusWatching, Name: "Watching", SeriesIDs: []int{1}}
	if sys.ListID() != "watching" || sys.ListName() != "Watching" {
		t.Errorf("system list identity = %q/%q", sys.ListID(), sys.ListName())
	}

	custom := CustomList{ID: "lst-abc", Name: "Favorites"}
	if custom.ListID() != "lst-abc" || custom.ListName() != "Favorites" {
		t.Errorf("custom list identity = %q/%q", custom.ListID(), custom.ListName())
	}
}

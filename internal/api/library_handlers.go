package api

import (
	"context"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// ListPayload is the wire form of a list. Kind discriminates between the
// status-derived system lists and user-created custom lists.
type ListPayload struct {
	Kind      string `json:"kind" enum:"system,custom" doc:"List variant"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_id,omitempty"`
	SeriesIDs []int  `json:"series_ids"`
}

func toListPayload(l domain.List) ListPayload {
	p := ListPayload{
		ID:        l.ListID(),
		Name:      l.ListName(),
		SeriesIDs: l.Members(),
	}
	switch v := l.(type) {
	case domain.SystemList:
		p.Kind = "system"
	case domain.CustomList:
		p.Kind = "custom"
		p.OwnerID = v.OwnerID
	}
	return p
}

// SessionHeader carries the caller identity. The daemon trusts the local
// app shell; an empty value means signed out.
type SessionHeader struct {
	UserID string `header:"X-Session-User" doc:"Signed-in user identifier"`
}

type listStatusesOutput struct {
	Body struct {
		Statuses []domain.SeriesStatus `json:"statuses"`
	}
}

type listListsOutput struct {
	Body struct {
		Lists []ListPayload `json:"lists"`
	}
}

type listFollowsOutput struct {
	Body struct {
		Follows []domain.FollowedList `json:"follows"`
	}
}

type resolvedFollowsOutput struct {
	Body struct {
		Lists []ListPayload `json:"lists"`
	}
}

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-statuses",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/statuses",
		Summary:     "List watch statuses",
		Tags:        []string{"Library"},
	}, s.handleListStatuses)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-lists",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/lists",
		Summary:     "List system and custom lists in display order",
		Tags:        []string{"Library"},
	}, s.handleListLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-follows",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/follows",
		Summary:     "List followed-list references",
		Tags:        []string{"Library"},
	}, s.handleListFollows)

	huma.Register(s.api, huma.Operation{
		OperationID: "resolve-follows",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/follows/resolved",
		Summary:     "Resolve followed lists to their current content",
		Tags:        []string{"Library"},
	}, s.handleResolveFollows)

	huma.Register(s.api, huma.Operation{
		OperationID:   "refresh-library",
		Method:        http.MethodPost,
		Path:          "/api/v1/library/refresh",
		Summary:       "Run a full reconciliation pass",
		Tags:          []string{"Library"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRefresh)
}

type listStatusesInput struct {
	SessionHeader
}

func (s *Server) handleListStatuses(ctx context.Context, input *listStatusesInput) (*listStatusesOutput, error) {
	statuses, err := s.services.Library.LoadStatuses(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	out := &listStatusesOutput{}
	out.Body.Statuses = make([]domain.SeriesStatus, 0, len(statuses))
	for _, st := range statuses {
		out.Body.Statuses = append(out.Body.Statuses, st)
	}
	sort.Slice(out.Body.Statuses, func(i, j int) bool {
		return out.Body.Statuses[i].SeriesID < out.Body.Statuses[j].SeriesID
	})
	return out, nil
}

type listListsInput struct {
	SessionHeader
}

func (s *Server) handleListLists(ctx context.Context, input *listListsInput) (*listListsOutput, error) {
	lists, err := s.services.Library.LoadLists(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	out := &listListsOutput{}
	out.Body.Lists = make([]ListPayload, 0, len(lists))
	for _, l := range lists {
		out.Body.Lists = append(out.Body.Lists, toListPayload(l))
	}
	return out, nil
}

type listFollowsInput struct {
	SessionHeader
}

func (s *Server) handleListFollows(ctx context.Context, input *listFollowsInput) (*listFollowsOutput, error) {
	follows, err := s.services.Library.LoadFollowedLists(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	out := &listFollowsOutput{}
	out.Body.Follows = follows
	if out.Body.Follows == nil {
		out.Body.Follows = []domain.FollowedList{}
	}
	return out, nil
}

type resolveFollowsInput struct {
	SessionHeader
}

func (s *Server) handleResolveFollows(ctx context.Context, input *resolveFollowsInput) (*resolvedFollowsOutput, error) {
	resolved, err := s.services.Library.ResolveFollowedLists(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	out := &resolvedFollowsOutput{}
	out.Body.Lists = make([]ListPayload, 0, len(resolved))
	for _, l := range resolved {
		out.Body.Lists = append(out.Body.Lists, toListPayload(l))
	}
	return out, nil
}

type refreshInput struct {
	SessionHeader
}

func (s *Server) handleRefresh(ctx context.Context, input *refreshInput) (*struct{}, error) {
	if err := s.services.Library.Refresh(ctx, input.UserID); err != nil {
		return nil, err
	}
	return nil, nil
}

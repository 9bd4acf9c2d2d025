package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/episodeo/episodeo-server/internal/domain"
)

func (s *Server) registerTrackingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "set-status",
		Method:        http.MethodPut,
		Path:          "/api/v1/series/{seriesID}/status",
		Summary:       "Set the watch status for a series",
		Tags:          []string{"Tracking"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleSetStatus)

	huma.Register(s.api, huma.Operation{
		OperationID:   "clear-status",
		Method:        http.MethodDelete,
		Path:          "/api/v1/series/{seriesID}/status",
		Summary:       "Remove a series from tracking",
		Tags:          []string{"Tracking"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleClearStatus)

	huma.Register(s.api, huma.Operation{
		OperationID:   "set-rating",
		Method:        http.MethodPut,
		Path:          "/api/v1/series/{seriesID}/rating",
		Summary:       "Rate a series",
		Tags:          []string{"Tracking"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleSetRating)

	huma.Register(s.api, huma.Operation{
		OperationID:   "clear-rating",
		Method:        http.MethodDelete,
		Path:          "/api/v1/series/{seriesID}/rating",
		Summary:       "Remove a series rating",
		Tags:          []string{"Tracking"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleClearRating)

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-list",
		Method:        http.MethodPost,
		Path:          "/api/v1/lists",
		Summary:       "Create a custom list",
		Tags:          []string{"Lists"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateList)

	huma.Register(s.api, huma.Operation{
		OperationID:   "rename-list",
		Method:        http.MethodPatch,
		Path:          "/api/v1/lists/{listID}",
		Summary:       "Rename a custom list",
		Tags:          []string{"Lists"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRenameList)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-list",
		Method:        http.MethodDelete,
		Path:          "/api/v1/lists/{listID}",
		Summary:       "Delete a custom list",
		Tags:          []string{"Lists"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteList)

	huma.Register(s.api, huma.Operation{
		OperationID:   "add-list-member",
		Method:        http.MethodPost,
		Path:          "/api/v1/lists/{listID}/members",
		Summary:       "Add a series to a custom list",
		Tags:          []string{"Lists"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleAddListMember)

	huma.Register(s.api, huma.Operation{
		OperationID:   "remove-list-member",
		Method:        http.MethodDelete,
		Path:          "/api/v1/lists/{listID}/members/{seriesID}",
		Summary:       "Remove a series from a custom list",
		Tags:          []string{"Lists"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveListMember)

	huma.Register(s.api, huma.Operation{
		OperationID:   "unfollow-list",
		Method:        http.MethodDelete,
		Path:          "/api/v1/follows/{listID}",
		Summary:       "Stop following a shared list",
		Tags:          []string{"Lists"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleUnfollow)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-account",
		Method:        http.MethodDelete,
		Path:          "/api/v1/account",
		Summary:       "Delete all account data, remote and local",
		Tags:          []string{"Account"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteAccount)
}

// SetStatusBody carries a watch status value. "none" is accepted as a
// deletion marker equivalent to the DELETE endpoint.
type SetStatusBody struct {
	Status string `json:"status" doc:"One of pending, watching, completed, dropped, none" validate:"required,watchstatus"`
}

type setStatusInput struct {
	SessionHeader
	SeriesID int `path:"seriesID" minimum:"1"`
	Body     SetStatusBody
}

func (s *Server) handleSetStatus(ctx context.Context, input *setStatusInput) (*struct{}, error) {
	status := domain.WatchStatus(input.Body.Status)
	if status != domain.StatusNone {
		if err := s.validator.Validate(input.Body); err != nil {
			return nil, err
		}
	}
	if err := s.services.Tracking.SetStatus(ctx, input.UserID, input.SeriesID, status); err != nil {
		return nil, err
	}
	return nil, nil
}

type clearStatusInput struct {
	SessionHeader
	SeriesID int `path:"seriesID" minimum:"1"`
}

func (s *Server) handleClearStatus(ctx context.Context, input *clearStatusInput) (*struct{}, error) {
	if err := s.services.Tracking.ClearStatus(ctx, input.UserID, input.SeriesID); err != nil {
		return nil, err
	}
	return nil, nil
}

// SetRatingBody carries a 1-10 rating.
type SetRatingBody struct {
	Rating int `json:"rating" doc:"Rating from 1 to 10" validate:"required,gte=1,lte=10"`
}

type setRatingInput struct {
	SessionHeader
	SeriesID int `path:"seriesID" minimum:"1"`
	Body     SetRatingBody
}

func (s *Server) handleSetRating(ctx context.Context, input *setRatingInput) (*struct{}, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}
	if err := s.services.Tracking.SetRating(ctx, input.UserID, input.SeriesID, input.Body.Rating); err != nil {
		return nil, err
	}
	return nil, nil
}

type clearRatingInput struct {
	SessionHeader
	SeriesID int `path:"seriesID" minimum:"1"`
}

func (s *Server) handleClearRating(ctx context.Context, input *clearRatingInput) (*struct{}, error) {
	if err := s.services.Tracking.ClearRating(ctx, input.UserID, input.SeriesID); err != nil {
		return nil, err
	}
	return nil, nil
}

// ListNameBody carries a list display name.
type ListNameBody struct {
	Name string `json:"name" doc:"Display name" validate:"required,max=100"`
}

type createListInput struct {
	SessionHeader
	Body ListNameBody
}

type createListOutput struct {
	Body ListPayload
}

func (s *Server) handleCreateList(ctx context.Context, input *createListInput) (*createListOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}
	list, err := s.services.Tracking.CreateList(ctx, input.UserID, input.Body.Name)
	if err != nil {
		return nil, err
	}
	return &createListOutput{Body: toListPayload(list)}, nil
}

type renameListInput struct {
	SessionHeader
	ListID string `path:"listID"`
	Body   ListNameBody
}

func (s *Server) handleRenameList(ctx context.Context, input *renameListInput) (*struct{}, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}
	if err := s.services.Tracking.RenameList(ctx, input.UserID, input.ListID, input.Body.Name); err != nil {
		return nil, err
	}
	return nil, nil
}

type deleteListInput struct {
	SessionHeader
	ListID string `path:"listID"`
}

func (s *Server) handleDeleteList(ctx context.Context, input *deleteListInput) (*struct{}, error) {
	if err := s.services.Tracking.DeleteList(ctx, input.UserID, input.ListID); err != nil {
		return nil, err
	}
	return nil, nil
}

// AddMemberBody identifies the series to add.
type AddMemberBody struct {
	SeriesID int `json:"series_id" doc:"Series to add" validate:"required,gt=0"`
}

type addListMemberInput struct {
	SessionHeader
	ListID string `path:"listID"`
	Body   AddMemberBody
}

func (s *Server) handleAddListMember(ctx context.Context, input *addListMemberInput) (*struct{}, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}
	if err := s.services.Tracking.AddToList(ctx, input.UserID, input.ListID, input.Body.SeriesID); err != nil {
		return nil, err
	}
	return nil, nil
}

type removeListMemberInput struct {
	SessionHeader
	ListID   string `path:"listID"`
	SeriesID int    `path:"seriesID" minimum:"1"`
}

func (s *Server) handleRemoveListMember(ctx context.Context, input *removeListMemberInput) (*struct{}, error) {
	if err := s.services.Tracking.RemoveFromList(ctx, input.UserID, input.ListID, input.SeriesID); err != nil {
		return nil, err
	}
	return nil, nil
}

type unfollowInput struct {
	SessionHeader
	ListID string `path:"listID"`
}

func (s *Server) handleUnfollow(ctx context.Context, input *unfollowInput) (*struct{}, error) {
	if err := s.services.Tracking.Unfollow(ctx, input.UserID, input.ListID); err != nil {
		return nil, err
	}
	return nil, nil
}

type deleteAccountInput struct {
	SessionHeader
}

func (s *Server) handleDeleteAccount(ctx context.Context, input *deleteAccountInput) (*struct{}, error) {
	if err := s.services.Tracking.DeleteAccount(ctx, input.UserID); err != nil {
		return nil, err
	}
	return nil, nil
}

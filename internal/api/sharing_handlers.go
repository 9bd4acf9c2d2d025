package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/episodeo/episodeo-server/internal/domain"
)

func (s *Server) registerSharingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "share-list",
		Method:        http.MethodPost,
		Path:          "/api/v1/lists/{listID}/share",
		Summary:       "Generate a share code for a list",
		Tags:          []string{"Sharing"},
		DefaultStatus: http.StatusCreated,
	}, s.handleShareList)

	huma.Register(s.api, huma.Operation{
		OperationID: "redeem-code",
		Method:      http.MethodPost,
		Path:        "/api/v1/shares/redeem",
		Summary:     "Redeem a share code and follow its list",
		Tags:        []string{"Sharing"},
	}, s.handleRedeemCode)
}

type shareListInput struct {
	SessionHeader
	ListID string `path:"listID"`
}

type shareListOutput struct {
	Body struct {
		Code string `json:"code" doc:"Six-character share code"`
	}
}

func (s *Server) handleShareList(ctx context.Context, input *shareListInput) (*shareListOutput, error) {
	code, err := s.services.Sharing.GenerateCode(ctx, input.UserID, input.ListID)
	if err != nil {
		return nil, err
	}

	out := &shareListOutput{}
	out.Body.Code = code
	return out, nil
}

// RedeemBody carries a share code. Codes are matched case-insensitively;
// malformed codes come back as INVALID_CODE rather than a generic
// validation failure so the app can show its "check the code" message.
type RedeemBody struct {
	Code string `json:"code" doc:"Share code to redeem"`
}

type redeemCodeInput struct {
	SessionHeader
	Body RedeemBody
}

type redeemCodeOutput struct {
	Body domain.FollowedList
}

func (s *Server) handleRedeemCode(ctx context.Context, input *redeemCodeInput) (*redeemCodeOutput, error) {
	ref, err := s.services.Sharing.RedeemCode(ctx, input.UserID, input.Body.Code)
	if err != nil {
		return nil, err
	}
	return &redeemCodeOutput{Body: ref}, nil
}

package chat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/transport"
)

type ClientAPI interface {
	MintUserToken(userID int64) (*TokenResponse, error)
	EnsureUser(ctx context.Context, job SyncJob) error
	EnsureChannel(ctx context.Context, a, b int64) (*Channel, error)
}

type Handler struct {
	*transport.BaseHandler
	Client ClientAPI
}

func NewHandler(client ClientAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Client:      client,
	}
}

// GetToken upserts the caller's user record on the provider and mints their
// connection token. The upsert comes first so the token never references a
// user the provider has not seen.
func (h *Handler) GetToken(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Client.EnsureUser(r.Context(), SyncJob{
		UserID: user.ID,
		Name:   user.Email,
		Email:  user.Email,
	}); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	token, err := h.Client.MintUserToken(user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, token)
}

type openChannelDTO struct {
	PeerUserID int64 `json:"peer_user_id"`
}

// OpenChannel resolves the direct-message channel between the caller and a
// peer, creating it on the provider if needed.
func (h *Handler) OpenChannel(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto openChannelDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.PeerUserID <= 0 {
		h.WriteError(w, http.StatusBadRequest, "peer_user_id is required")
		return
	}

	channel, err := h.Client.EnsureChannel(r.Context(), user.ID, dto.PeerUserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, channel)
}

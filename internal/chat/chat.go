package chat

import (
	"fmt"

	"github.com/peopleops/hr-platform/internal"
)

// Channel is a direct-message channel on the external messaging provider.
type Channel struct {
	ID      string  `json:"id"`
	Members []int64 `json:"members"`
}

// TokenResponse is what the front end needs to connect to the provider.
type TokenResponse struct {
	Token     string `json:"token"`
	UserID    int64  `json:"user_id"`
	ExpiresIn int64  `json:"expires_in"`
}

const channelPrefix = "dm"

// DeriveChannelID builds the direct-message channel id for a pair of users.
// The id is commutative: both orderings of the pair map to the same channel.
func DeriveChannelID(a, b int64) string {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("%s-%d-%d", channelPrefix, lo, hi)
}

var (
	ErrProviderUnavailable = internal.NewExternalError("chat provider unavailable", internal.ErrCodeChatProvider, nil)
	ErrSelfChannel         = internal.NewValidationError("cannot open a channel with yourself", internal.ErrCodeValidationFailed)
)

package coach

import (
	"time"

	"github.com/yash81300/arogyamitra/internal/aiagent"
)

// MaxStoredMessages bounds the stored conversation of a user.
const MaxStoredMessages = 50

// Session is the single conversation a user has with the coach.
type Session struct {
	ID        int64
	UserID    int64
	Messages  []aiagent.ChatMessage
	Context   map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

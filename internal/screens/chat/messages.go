package chat

import (
	"github.com/abhisek/quizbot/internal/dialog"
)

// replyMsg is sent when the router has produced a reply for the last input.
type replyMsg struct {
	Reply dialog.Reply
}

// Package chat implements the conversation screen: a scrolling
// transcript between the user and the tutor, with a single text input.
// Replies are produced off the update loop so slow oracle calls never
// freeze the UI; input is gated until the pending reply lands.
package chat

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizbot/internal/dialog"
	"github.com/abhisek/quizbot/internal/screen"
	"github.com/abhisek/quizbot/internal/ui/components"
	"github.com/abhisek/quizbot/internal/ui/layout"
)

type author int

const (
	authorUser author = iota
	authorTutor
)

type entry struct {
	author author
	text   string
}

// ChatScreen implements screen.Screen for the conversation.
type ChatScreen struct {
	router     *dialog.Router
	input      components.TextInput
	transcript []entry
	busy       bool
	quitting   bool
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a ChatScreen driven by the given router.
func New(router *dialog.Router) *ChatScreen {
	return &ChatScreen{
		router: router,
		input:  components.NewTextInput("Type a message...", 200),
		transcript: []entry{
			{author: authorTutor, text: router.Greeting()},
		},
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return c.input.Init()
}

func (c *ChatScreen) Title() string {
	return "Quiz Chat"
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	if c.busy {
		return []layout.KeyHint{
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		return c.handleReply(msg)

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return c.submit()
		}
	}

	if c.busy || c.quitting {
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// submit sends the current input line to the router.
func (c *ChatScreen) submit() (screen.Screen, tea.Cmd) {
	if c.busy || c.quitting {
		return c, nil
	}

	text := strings.TrimSpace(c.input.Value())
	if text == "" {
		return c, nil
	}

	c.transcript = append(c.transcript, entry{author: authorUser, text: text})
	c.input.Reset()
	c.input.SetDisabled(true)
	c.busy = true

	return c, c.dispatch(text)
}

// dispatch runs the router off the update loop and delivers the reply
// as a message.
func (c *ChatScreen) dispatch(text string) tea.Cmd {
	router := c.router
	return func() tea.Msg {
		return replyMsg{Reply: router.Handle(context.Background(), text)}
	}
}

func (c *ChatScreen) handleReply(msg replyMsg) (screen.Screen, tea.Cmd) {
	c.busy = false
	c.input.SetDisabled(false)
	c.transcript = append(c.transcript, entry{author: authorTutor, text: msg.Reply.Text})

	if msg.Reply.Quit {
		c.quitting = true
		return c, tea.Quit
	}
	return c, nil
}

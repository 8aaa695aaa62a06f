package domain

// Profile is what the messaging side tells us about the sender.
type Profile struct {
	ChatID    ChatID
	Username  string
	FirstName string
	LastName  string
}

// Inbound is one unit of user input: either typed text or a discrete action
// coming from an inline button.
type Inbound struct {
	Profile
	Text      string
	Action    string
	Timestamp Timestamp
}

// Reply is one rendered block sent back to the user. Secret asks the
// transport not to echo the user's next input.
type Reply struct {
	Text     string
	Markdown bool
	Secret   bool
	Keyboard *Keyboard
}

// Keyboard describes either a reply keyboard (Rows of captions) or inline
// buttons carrying opaque callback data.
type Keyboard struct {
	Rows   [][]string
	Inline [][]InlineButton
}

type InlineButton struct {
	Text string
	Data string
}

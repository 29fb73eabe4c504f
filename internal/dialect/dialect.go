// Package dialect maps a requested model to the backend request shape it
// understands and to the rule for reading its reply.
package dialect

// Recognized chat-style model identifiers.
const (
	ChatModel         = "gpt-3.5-turbo"
	ChatModelSnapshot = "gpt-3.5-turbo-0301"

	// DefaultModel is used when the client does not name one.
	DefaultModel = ChatModel
)

// Dialect is the backend request shape for a model family.
type Dialect int

const (
	// Legacy models take a single flat prompt and have no system role.
	Legacy Dialect = iota
	// Chat models take separate system and user messages.
	Chat
)

// ForModel selects the dialect for model. Only the known chat identifiers map
// to Chat; every other name, including ones we have never seen, is Legacy.
func ForModel(model string) Dialect {
	switch model {
	case ChatModel, ChatModelSnapshot:
		return Chat
	default:
		return Legacy
	}
}

func (d Dialect) String() string {
	if d == Chat {
		return "chat"
	}
	return "legacy"
}

// replyPath is the gjson path of the reply text in a successful response.
func (d Dialect) replyPath() string {
	if d == Chat {
		return "choices.0.message.content"
	}
	return "choices.0.text"
}

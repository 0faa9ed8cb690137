package domain

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one turn of a tutor conversation. History is owned by the
// caller and passed by value; the engine never mutates it.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContextData is an ambient snapshot of what the user is currently looking
// at. All fields are optional and supplied fresh on every call.
type ContextData struct {
	PageTitle    string `json:"pageTitle,omitempty"`
	ProblemTitle string `json:"problemTitle,omitempty"`
	CurrentCode  string `json:"currentCode,omitempty"`
	Language     string `json:"language,omitempty"`
	Selection    string `json:"selection,omitempty"`
}

// NavigateAction asks the client to open a page.
type NavigateAction struct {
	Path string `json:"path"`
}

// Reply is the composer's tagged result: plain markdown text, optionally
// paired with a client-side action. Encoding to the legacy wire shape
// happens once at the handler boundary.
type Reply struct {
	Text   string
	Action *NavigateAction
}

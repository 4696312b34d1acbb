package models

// NoTitle is used when a page has no <title> element.
const NoTitle = "No title found"

// PageContent is the cleaned text of a single fetched page.
type PageContent struct {
	URL   string
	Title string
	Text  string
}

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type Message struct {
	Role    Role
	Content string
}

// Prompt is the ordered system + user message pair sent to a provider.
type Prompt []Message

// System returns the content of the first system message, if any.
func (p Prompt) System() string {
	for _, m := range p {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}

// User returns the content of the first user message, if any.
func (p Prompt) User() string {
	for _, m := range p {
		if m.Role == RoleUser {
			return m.Content
		}
	}
	return ""
}

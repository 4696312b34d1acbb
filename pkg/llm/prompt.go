package llm

import (
	"github.com/xhad/websum/internal/models"
)

const SystemPrompt = "You are an assistant that analyzes the contents of a website " +
	"and provides a short summary, ignoring text that might be navigation related. " +
	"Respond in markdown."

// UserPrompt interpolates the page title and the full extracted text.
func UserPrompt(page models.PageContent) string {
	return "You are looking at a website titled " + page.Title +
		"\nThe contents of this website is as follows; please provide a short summary of this website in" +
		" markdown. If it includes news or announcements, then summarize these too.\n\n" +
		page.Text
}

// BuildPrompt returns the system + user message pair for a page.
func BuildPrompt(page models.PageContent) models.Prompt {
	return models.Prompt{
		{Role: models.RoleSystem, Content: SystemPrompt},
		{Role: models.RoleUser, Content: UserPrompt(page)},
	}
}

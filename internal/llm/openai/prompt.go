package openai

import (
	"fmt"

	"resume-analyzer/internal/llm"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

// BuildPrompt creates the chat messages for a resume analysis request.
func BuildPrompt(resumeText string) []Message {
	return []Message{
		{Role: "system", Content: llm.SystemPrompt()},
		{Role: "user", Content: buildUserPrompt(resumeText)},
	}
}

func buildUserPrompt(resumeText string) string {
	return fmt.Sprintf("Resume Text:\n%s", resumeText)
}

package identify

import (
	"encoding/base64"

	"github.com/sashabaranov/go-openai"
)

// SystemPrompt is the fixed instruction sent ahead of every user message
const SystemPrompt = "You are a crop identification expert. Based on the image provided, " +
	"identify the crop and respond in JSON: {croptype: fruit}. " +
	"If the user asks to count the fruit, provide the count too."

// DefaultPrompt is used when the user leaves the question blank
const DefaultPrompt = "What is the fruit crop type in the image?"

const dataURIPrefix = "data:image/jpeg;base64,"

// DataURI embeds raw image bytes as a base64 JPEG data URI
func DataURI(image []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(image)
}

// BuildRequest assembles the two-message conversation: the system instruction
// followed by a user message carrying the prompt text and the image.
func BuildRequest(image []byte, prompt, model string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: DataURI(image),
						},
					},
				},
			},
		},
	}
}

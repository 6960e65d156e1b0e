package identify

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest_Shape(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	req := BuildRequest(image, "How many mangoes?", "meta-llama/llama-4-scout-17b-16e-instruct")

	assert.Equal(t, "meta-llama/llama-4-scout-17b-16e-instruct", req.Model)
	require.Len(t, req.Messages, 2)

	system, user := req.Messages[0], req.Messages[1]
	assert.Equal(t, openai.ChatMessageRoleSystem, system.Role)
	assert.Equal(t, SystemPrompt, system.Content)
	assert.Contains(t, system.Content, "If the user asks to count the fruit, provide the count too.")
	assert.Empty(t, system.MultiContent)

	assert.Equal(t, openai.ChatMessageRoleUser, user.Role)
	require.Len(t, user.MultiContent, 2)
	assert.Equal(t, openai.ChatMessagePartTypeText, user.MultiContent[0].Type)
	assert.Equal(t, "How many mangoes?", user.MultiContent[0].Text)
	assert.Equal(t, openai.ChatMessagePartTypeImageURL, user.MultiContent[1].Type)
	require.NotNil(t, user.MultiContent[1].ImageURL)
	assert.Equal(t,
		"data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(image),
		user.MultiContent[1].ImageURL.URL)
}

func TestBuildRequest_ImageRoundTrips(t *testing.T) {
	inputs := [][]byte{
		{0x00},
		[]byte("\x89PNG\r\n\x1a\nnot really a png"),
		make([]byte, 4096),
	}

	for _, image := range inputs {
		req := BuildRequest(image, DefaultPrompt, "m")
		url := req.Messages[1].MultiContent[1].ImageURL.URL
		require.Contains(t, url, dataURIPrefix)

		decoded, err := base64.StdEncoding.DecodeString(url[len(dataURIPrefix):])
		require.NoError(t, err)
		assert.Equal(t, image, decoded)
	}
}

func TestBuildRequest_WireFormat(t *testing.T) {
	req := BuildRequest([]byte("abc"), "What crop is this?", "meta-llama/llama-4-maverick-17b-128e-instruct")

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &body))

	assert.Equal(t, "meta-llama/llama-4-maverick-17b-128e-instruct", body.Model)
	require.Len(t, body.Messages, 2)

	var systemText string
	require.NoError(t, json.Unmarshal(body.Messages[0].Content, &systemText))
	assert.Equal(t, SystemPrompt, systemText)

	var parts []map[string]any
	require.NoError(t, json.Unmarshal(body.Messages[1].Content, &parts))
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0]["type"])
	assert.Equal(t, "What crop is this?", parts[0]["text"])
	assert.Equal(t, "image_url", parts[1]["type"])
	imageURL, ok := parts[1]["image_url"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "data:image/jpeg;base64,YWJj", imageURL["url"])
}

package anthropic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "hello "},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: "world"},
		},
	}
	assert.Equal(t, "hello world", Text(resp))
	assert.Equal(t, "", Text(nil))
}

func TestTokenUsage_Add(t *testing.T) {
	u := TokenUsage{InputTokens: 10, OutputTokens: 5}
	u.Add(TokenUsage{InputTokens: 3, OutputTokens: 2, CacheReadInputTokens: 7})
	assert.Equal(t, int64(13), u.InputTokens)
	assert.Equal(t, int64(7), u.OutputTokens)
	assert.Equal(t, int64(7), u.CacheReadInputTokens)
}

func TestEstimateCost_KnownModel(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 4.80, u.EstimateCost("claude-haiku-4-5-20251001"), 0.001)
}

func TestEstimateCost_UnknownModel(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000}
	assert.Equal(t, 0.0, u.EstimateCost("some-other-model"))
}

func TestIsDocumentRejected(t *testing.T) {
	assert.True(t, IsDocumentRejected(errors.New("400 invalid_request_error: could not process document")))
	assert.True(t, IsDocumentRejected(errors.New("invalid_request_error: image exceeds size limit")))
	assert.False(t, IsDocumentRejected(errors.New("500 internal server error")))
	assert.False(t, IsDocumentRejected(errors.New("429 rate limit exceeded")))
	assert.False(t, IsDocumentRejected(nil))
}

func TestToSDKMessages_AttachesDocumentsOnce(t *testing.T) {
	req := MessageRequest{
		Messages: []Message{
			{Role: "user", Content: "first"},
			{Role: "assistant", Content: "ack"},
			{Role: "user", Content: "second"},
		},
		Documents: []Document{
			{Name: "plan.pdf", MediaType: "application/pdf", Data: []byte("%PDF-1.4")},
			{Name: "elev.png", MediaType: "image/png", Data: []byte{0x89, 0x50}},
		},
	}

	msgs := toSDKMessages(req)
	assert.Len(t, msgs, 3)
	// Documents ride on the first user message only.
	assert.Len(t, msgs[0].Content, 3)
	assert.Len(t, msgs[1].Content, 1)
	assert.Len(t, msgs[2].Content, 1)
}

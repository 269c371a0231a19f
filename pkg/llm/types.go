package llm

// Message represents a chat message. When Parts is non-empty it is sent as
// structured content and Content is ignored.
type Message struct {
	Role    string        `json:"role"`
	Content string        `json:"content,omitempty"`
	Parts   []ContentPart `json:"parts,omitempty"`
}

// ContentPart is one element of structured message content.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image, usually as a data URI.
type ImageURL struct {
	URL string `json:"url"`
}

// Part types.
const (
	PartText  = "text"
	PartImage = "image_url"
)

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart builds an image content part pointing at url.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: PartImage, ImageURL: &ImageURL{URL: url}}
}

// UserMessage builds a plain-text user message.
func UserMessage(text string) Message {
	return Message{Role: "user", Content: text}
}

// Request is a single chat completion request.
type Request struct {
	Model       string
	Messages    []Message
	Temperature *float32
	MaxTokens   int
	TopP        *float32
	Stream      bool
	Stop        []string
}

// Completion is the response to a chat completion request.
type Completion struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one candidate response.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// FirstText returns the text of the first choice, or "" if there is none.
func (c *Completion) FirstText() string {
	if c == nil || len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Message.Content
}

// Usage tracks token consumption for a request/response pair.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Model describes a model offered by the provider.
type Model struct {
	ID            string `json:"id"`
	OwnedBy       string `json:"owned_by"`
	Created       int64  `json:"created"`
	ContextWindow int    `json:"context_window,omitempty"`
	Active        bool   `json:"active"`
}

// Float32 returns a pointer to v, for optional request parameters.
func Float32(v float32) *float32 {
	return &v
}

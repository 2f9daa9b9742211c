package gemini

import "strings"

// Modality is an output modality requested from the model.
type Modality string

const (
	ModalityText  Modality = "TEXT"
	ModalityImage Modality = "IMAGE"
)

// Role values used in Content.Role.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// GenerateContentRequest is the body of a models/{model}:generateContent call.
type GenerateContentRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part holds either text or inline binary data.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob is inline binary data. Data stays base64-encoded as it travels on the wire.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type GenerationConfig struct {
	ResponseMIMEType   string     `json:"responseMimeType,omitempty"`
	ResponseSchema     *Schema    `json:"responseSchema,omitempty"`
	Temperature        *float32   `json:"temperature,omitempty"`
	ResponseModalities []Modality `json:"responseModalities,omitempty"`
}

type GenerateContentResponse struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
}

type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// UserText builds a single user turn holding text.
func UserText(text string) Content {
	return Content{Role: RoleUser, Parts: []Part{{Text: text}}}
}

// SystemText builds a system instruction.
func SystemText(text string) *Content {
	return &Content{Parts: []Part{{Text: text}}}
}

// Float32 returns a pointer to v, for GenerationConfig.Temperature.
func Float32(v float32) *float32 {
	return &v
}

// Text concatenates the text parts of the first candidate.
// It returns "" when the response carries no text at all.
func (r *GenerateContentResponse) Text() string {
	if r == nil || len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// FirstInlineData returns the first non-empty inline blob of the first candidate.
func (r *GenerateContentResponse) FirstInlineData() (*Blob, bool) {
	if r == nil || len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return nil, false
	}
	for _, p := range r.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			return p.InlineData, true
		}
	}
	return nil, false
}

// WantsModality reports whether the request asks for the given output modality.
func (r *GenerateContentRequest) WantsModality(m Modality) bool {
	if r == nil || r.GenerationConfig == nil {
		return false
	}
	for _, got := range r.GenerationConfig.ResponseModalities {
		if got == m {
			return true
		}
	}
	return false
}

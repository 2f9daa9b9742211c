package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrModalityUnsupported is returned by SDKModel for requests asking for non-text output.
var ErrModalityUnsupported = errors.New("gemini sdk backend: requested response modality is not supported")

// SDKClient wraps the official Go SDK. It serves text generation only.
type SDKClient struct {
	client *genai.Client
}

func NewSDKClient(ctx context.Context, apiKey string) (*SDKClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &SDKClient{client: client}, nil
}

func (c *SDKClient) Close() error {
	return c.client.Close()
}

type SDKModel struct {
	client *genai.Client
	name   string
}

func (c *SDKClient) GenerativeModel(name string) *SDKModel {
	return &SDKModel{client: c.client, name: name}
}

func (m *SDKModel) Name() string {
	return m.name
}

// Generate maps req onto a genai.GenerativeModel and the answer back onto the REST types.
func (m *SDKModel) Generate(ctx context.Context, req *GenerateContentRequest) (*GenerateContentResponse, error) {
	if req.WantsModality(ModalityImage) {
		return nil, ErrModalityUnsupported
	}

	model := m.client.GenerativeModel(m.name)
	if req.SystemInstruction != nil {
		model.SystemInstruction = &genai.Content{Parts: toGenAIParts(req.SystemInstruction.Parts)}
	}
	if gc := req.GenerationConfig; gc != nil {
		model.ResponseMIMEType = gc.ResponseMIMEType
		model.ResponseSchema = gc.ResponseSchema.ToGenAI()
		if gc.Temperature != nil {
			model.SetTemperature(*gc.Temperature)
		}
	}

	var parts []genai.Part
	for _, content := range req.Contents {
		parts = append(parts, toGenAIParts(content.Parts)...)
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, err
	}
	return fromGenAIResponse(resp), nil
}

func toGenAIParts(parts []Part) []genai.Part {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Text != "" {
			out = append(out, genai.Text(p.Text))
		}
	}
	return out
}

func fromGenAIResponse(resp *genai.GenerateContentResponse) *GenerateContentResponse {
	out := &GenerateContentResponse{}
	if resp == nil {
		return out
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		out.PromptFeedback = &PromptFeedback{BlockReason: resp.PromptFeedback.BlockReason.String()}
	}
	for _, c := range resp.Candidates {
		candidate := Candidate{FinishReason: c.FinishReason.String()}
		if c.Content != nil {
			content := &Content{Role: c.Content.Role}
			for _, p := range c.Content.Parts {
				switch v := p.(type) {
				case genai.Text:
					content.Parts = append(content.Parts, Part{Text: string(v)})
				case genai.Blob:
					content.Parts = append(content.Parts, Part{InlineData: &Blob{
						MIMEType: v.MIMEType,
						Data:     base64.StdEncoding.EncodeToString(v.Data),
					}})
				}
			}
			candidate.Content = content
		}
		out.Candidates = append(out.Candidates, candidate)
	}
	return out
}

package gemini

import "github.com/google/generative-ai-go/genai"

// Type is a schema node type, spelled the way the REST API expects it.
type Type string

const (
	TypeString  Type = "STRING"
	TypeNumber  Type = "NUMBER"
	TypeInteger Type = "INTEGER"
	TypeBoolean Type = "BOOLEAN"
	TypeArray   Type = "ARRAY"
	TypeObject  Type = "OBJECT"
)

// Schema describes the JSON shape the model must answer with.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// ToGenAI converts s for use with the Go SDK.
func (s *Schema) ToGenAI() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        s.Type.toGenAI(),
		Description: s.Description,
		Items:       s.Items.ToGenAI(),
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.ToGenAI()
		}
	}
	return out
}

func (t Type) toGenAI() genai.Type {
	switch t {
	case TypeString:
		return genai.TypeString
	case TypeNumber:
		return genai.TypeNumber
	case TypeInteger:
		return genai.TypeInteger
	case TypeBoolean:
		return genai.TypeBoolean
	case TypeArray:
		return genai.TypeArray
	case TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}

package models

import (
	"encoding/json"
	"strings"
)

// Recipe is an entry in the shared recipe catalog.
type Recipe struct {
	ID           ID          `json:"id,omitempty"`
	UserID       ID          `json:"user_id,omitempty"`
	Title        string      `json:"title"`
	ImageURL     string      `json:"image_url,omitempty"`
	Description  string      `json:"description"`
	Ingredients  Ingredients `json:"ingredients"`
	Instructions string      `json:"instructions"`
	CreatedBy    string      `json:"created_by"`
	CreatedAt    string      `json:"created_at,omitempty"`
	UpdatedAt    string      `json:"updated_at,omitempty"`
}

// Input returns the fields an edit sends back.
func (r Recipe) Input() RecipeInput {
	return RecipeInput{
		Title:        r.Title,
		ImageURL:     r.ImageURL,
		Description:  r.Description,
		Ingredients:  append([]string(nil), r.Ingredients...),
		Instructions: r.Instructions,
		CreatedBy:    r.CreatedBy,
	}
}

// Ingredients is stored as JSONB upstream. Rows may carry it as an array,
// as a JSON-encoded string of that array, or with non-string items, which
// are kept as their JSON text.
type Ingredients []string

func (in *Ingredients) UnmarshalJSON(data []byte) error {
	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			*in = nil
			return nil
		}
		data = []byte(encoded)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(Ingredients, 0, len(items))
	for _, raw := range items {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, string(raw))
	}
	*in = out
	return nil
}

type RecipeInput struct {
	Title        string   `json:"title" validate:"required,max=200"`
	ImageURL     string   `json:"image_url,omitempty" validate:"omitempty,url"`
	Description  string   `json:"description" validate:"required"`
	Ingredients  []string `json:"ingredients" validate:"dive,required"`
	Instructions string   `json:"instructions" validate:"required"`
	CreatedBy    string   `json:"created_by" validate:"required"`
}

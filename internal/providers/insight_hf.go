package providers

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// HuggingFace generates insights with the hosted inference API.
type HuggingFace struct {
	client  *http.Client
	baseURL string
	model   string
	token   string
}

func NewHuggingFace(client *http.Client, baseURL, model, token string) *HuggingFace {
	return &HuggingFace{client: client, baseURL: strings.TrimSuffix(baseURL, "/"), model: model, token: token}
}

type hfRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		MaxNewTokens   int     `json:"max_new_tokens"`
		Temperature    float64 `json:"temperature"`
		ReturnFullText bool    `json:"return_full_text"`
	} `json:"parameters"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

func (h *HuggingFace) Generate(ctx context.Context, prompt string) (string, error) {
	if h.token == "" {
		return "", ErrNotConfigured
	}
	var in hfRequest
	in.Inputs = prompt
	in.Parameters.MaxNewTokens = 140
	in.Parameters.Temperature = 0.7
	payload, err := json.Marshal(in)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/"+h.model, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Content-Type", "application/json")

	// the endpoint answers with either a list or a single object
	var raw json.RawMessage
	if err := doJSON(h.client, "HuggingFace", req, &raw); err != nil {
		return "", err
	}
	var list []hfGeneration
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return "", nil
		}
		return list[0].GeneratedText, nil
	}
	var one hfGeneration
	if err := json.Unmarshal(raw, &one); err != nil {
		return "", err
	}
	return one.GeneratedText, nil
}

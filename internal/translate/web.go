package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"lugat/internal/domain"
)

const (
	GoogleURL   = "https://translate.googleapis.com/translate_a/single"
	MyMemoryURL = "https://api.mymemory.translated.net/get"
)

// GoogleTranslator uses the public gtx endpoint of Google Translate
type GoogleTranslator struct {
	client  *http.Client
	baseURL string
	source  string
	target  string
}

// NewGoogleTranslator creates a Google Translate client
func NewGoogleTranslator(client *http.Client, baseURL, source, target string) *GoogleTranslator {
	return &GoogleTranslator{client: client, baseURL: baseURL, source: source, target: target}
}

// Translate looks up word. The response is a nested array whose first
// element holds the translated segments.
func (g *GoogleTranslator) Translate(ctx context.Context, word string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", g.source)
	params.Set("tl", g.target)
	params.Set("dt", "t")
	params.Set("q", word)

	var payload []interface{}
	if err := getJSON(ctx, g.client, g.baseURL+"?"+params.Encode(), &payload); err != nil {
		return "", err
	}

	if len(payload) == 0 {
		return "", domain.ErrTranslationNotFound
	}
	segments, ok := payload[0].([]interface{})
	if !ok || len(segments) == 0 {
		return "", domain.ErrTranslationNotFound
	}
	first, ok := segments[0].([]interface{})
	if !ok || len(first) == 0 {
		return "", domain.ErrTranslationNotFound
	}
	translation, ok := first[0].(string)
	if !ok || translation == "" {
		return "", domain.ErrTranslationNotFound
	}
	return translation, nil
}

// MyMemoryTranslator uses the MyMemory translation memory API
type MyMemoryTranslator struct {
	client  *http.Client
	baseURL string
	source  string
	target  string
}

// NewMyMemoryTranslator creates a MyMemory client
func NewMyMemoryTranslator(client *http.Client, baseURL, source, target string) *MyMemoryTranslator {
	return &MyMemoryTranslator{client: client, baseURL: baseURL, source: source, target: target}
}

type myMemoryResponse struct {
	ResponseStatus json.Number `json:"responseStatus"`
	ResponseData   struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// Translate looks up word and keeps only the first of several variants
func (m *MyMemoryTranslator) Translate(ctx context.Context, word string) (string, error) {
	params := url.Values{}
	params.Set("q", word)
	params.Set("langpair", m.source+"|"+m.target)

	var resp myMemoryResponse
	if err := getJSON(ctx, m.client, m.baseURL+"?"+params.Encode(), &resp); err != nil {
		return "", err
	}
	if resp.ResponseStatus.String() != "200" {
		return "", domain.ErrTranslationNotFound
	}

	translation := resp.ResponseData.TranslatedText
	if i := strings.Index(translation, ";"); i >= 0 {
		translation = translation[:i]
	}
	if i := strings.Index(translation, "("); i >= 0 {
		translation = translation[:i]
	}
	translation = strings.TrimSpace(translation)
	if translation == "" {
		return "", domain.ErrTranslationNotFound
	}
	return translation, nil
}

func getJSON(ctx context.Context, client *http.Client, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

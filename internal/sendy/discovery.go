package sendy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JonMunkholm/SendyUpload/internal/logging"
)

// brandKeyPrefix marks brand entries in the get-brands response object.
const brandKeyPrefix = "brand"

// Entry is one brand or list as shown in the upload form.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FetchBrands returns the brands visible to the API key, in response order.
// It never fails: a transport error or unparsable body yields an empty slice.
func (c *Client) FetchBrands(ctx context.Context) []Entry {
	form := url.Values{}
	form.Set("api_key", c.cfg.APIKey)

	entries, err := c.discover(ctx, c.cfg.BrandsURL, form, func(key string) bool {
		return strings.HasPrefix(key, brandKeyPrefix)
	})
	if err != nil {
		logging.FromContext(ctx).Warn("fetch brands failed", "error", err)
		return []Entry{}
	}
	return entries
}

// FetchLists returns the lists of brandID, in response order. Like
// FetchBrands it returns an empty slice on any failure.
func (c *Client) FetchLists(ctx context.Context, brandID string) []Entry {
	form := url.Values{}
	form.Set("api_key", c.cfg.APIKey)
	form.Set("brand_id", brandID)

	entries, err := c.discover(ctx, c.cfg.ListsURL, form, func(string) bool { return true })
	if err != nil {
		logging.FromContext(ctx).Warn("fetch lists failed", "brand_id", brandID, "error", err)
		return []Entry{}
	}
	return entries
}

func (c *Client) discover(ctx context.Context, endpoint string, form url.Values, keep func(key string) bool) ([]Entry, error) {
	if c.cfg.APIKey == "" || endpoint == "" {
		return nil, ErrMissingConfig
	}

	status, body, err := c.post(ctx, endpoint, form)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", status, excerpt(body))
	}
	return parseEntries([]byte(body), keep)
}

// parseEntries walks a JSON object or array and keeps every member that has
// both an id and a name. Object keys are filtered with keep; array members
// are always considered. Member order is preserved.
func parseEntries(data []byte, keep func(key string) bool) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil, errors.New("decode response: not an object or array")
	}

	entries := []Entry{}
	for dec.More() {
		key := ""
		if delim == '{' {
			kt, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("decode response: %w", err)
			}
			key, _ = kt.(string)
		}

		var member json.RawMessage
		if err := dec.Decode(&member); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}

		if delim == '{' && !keep(key) {
			continue
		}
		if e, ok := toEntry(member); ok {
			entries = append(entries, e)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return entries, nil
}

func toEntry(raw json.RawMessage) (Entry, bool) {
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return Entry{}, false
	}

	id, ok := scalar(fields["id"])
	if !ok {
		return Entry{}, false
	}
	name, ok := scalar(fields["name"])
	if !ok {
		return Entry{}, false
	}
	return Entry{ID: id, Name: name}, true
}

// scalar renders a JSON string or number. Null, missing and composite values
// are rejected.
func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

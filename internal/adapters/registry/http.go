package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"dentistimo/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// HTTP fetches the authoritative office records from the public dentist
// registry document.
type HTTP struct {
	url    string
	client *http.Client
}

func NewHTTP(url string) *HTTP {
	return &HTTP{url: url, client: &http.Client{}}
}

type registryDocument struct {
	Dentists []domain.Office `json:"dentists"`
}

func (h *HTTP) FetchOffices(ctx context.Context) ([]domain.Office, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating registry request: %w", err)
	}

	res, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching registry: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from registry: %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading registry response: %w", err)
	}

	var document registryDocument
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, fmt.Errorf("error unmarshalling registry document: %w", err)
	}

	if document.Dentists == nil {
		return nil, fmt.Errorf("registry document from %s has no dentists field", h.url)
	}

	log.Debug().Int("offices", len(document.Dentists)).Msg("fetched dentist registry")

	return document.Dentists, nil
}

package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetchOffices(t *testing.T) {
	tests := []struct {
		name           string
		responseBody   interface{}
		responseStatus int
		wantOffices    int
		wantErr        bool
	}{
		{
			name: "success",
			responseBody: map[string]interface{}{
				"dentists": []interface{}{
					map[string]interface{}{
						"id":       1,
						"name":     "Tooth Fairy Inc",
						"dentists": 3,
						"openinghours": map[string]interface{}{
							"monday": "8:00-17:00",
						},
					},
					map[string]interface{}{
						"id":       2,
						"name":     "Your Dentist",
						"dentists": 2,
					},
				},
			},
			responseStatus: http.StatusOK,
			wantOffices:    2,
			wantErr:        false,
		},
		{
			name:           "registry error",
			responseBody:   "gone",
			responseStatus: http.StatusInternalServerError,
			wantErr:        true,
		},
		{
			name:           "malformed JSON",
			responseBody:   "{not_json}",
			responseStatus: http.StatusOK,
			wantErr:        true,
		},
		{
			name:           "missing dentists field",
			responseBody:   map[string]interface{}{"offices": []interface{}{}},
			responseStatus: http.StatusOK,
			wantErr:        true,
		},
		{
			name:           "empty dentists list",
			responseBody:   map[string]interface{}{"dentists": []interface{}{}},
			responseStatus: http.StatusOK,
			wantOffices:    0,
			wantErr:        false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.responseStatus)
				switch b := tc.responseBody.(type) {
				case string:
					w.Write([]byte(b))
				default:
					json.NewEncoder(w).Encode(b)
				}
			}))
			defer srv.Close()

			fetcher := NewHTTP(srv.URL)

			got, err := fetcher.FetchOffices(context.Background())
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, got, tc.wantOffices)
			}
		})
	}
}

func TestHTTPFetchOfficesUnreachable(t *testing.T) {
	fetcher := NewHTTP("http://127.0.0.1:1")

	_, err := fetcher.FetchOffices(context.Background())

	require.Error(t, err)
}

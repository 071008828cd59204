package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestFetch_RedondeaACuatroDecimales(t *testing.T) {
	c := serve(t, http.StatusOK, `{"fuente":"oficial","promedio":36.512345,"fechaActualizacion":"2026-10-18T21:00:00.000Z"}`)

	rate, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "36.5123", rate.Rate.String())
	assert.Equal(t, 18, rate.SourceDate.Day())
}

func TestFetch_Errores(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"estado http", http.StatusServiceUnavailable, `{}`},
		{"promedio cero", http.StatusOK, `{"promedio":0,"fechaActualizacion":"2026-10-18T21:00:00Z"}`},
		{"sin promedio", http.StatusOK, `{"fechaActualizacion":"2026-10-18T21:00:00Z"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := serve(t, tc.status, tc.body).Fetch(context.Background())
			assert.Error(t, err)
		})
	}
}

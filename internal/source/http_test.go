package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestHTTPSource(url string, maxTries uint, maxBody int64) *HTTPSource {
	src := NewHTTPSource("remote", url, &http.Client{Timeout: 2 * time.Second}, maxTries, maxBody)
	src.initialInterval = time.Millisecond
	return src
}

func TestHTTPSource_Fetch(t *testing.T) {
	tests := []struct {
		name         string
		handler      func(calls int32) (int, string)
		maxTries     uint
		maxBody      int64
		wantRows     int
		wantErr      bool
		wantCalls    int32
		wantContains string
	}{
		{
			name:      "success",
			handler:   func(int32) (int, string) { return http.StatusOK, sampleCSV },
			maxTries:  3,
			wantRows:  3,
			wantCalls: 1,
		},
		{
			name: "retries server errors then succeeds",
			handler: func(calls int32) (int, string) {
				if calls < 3 {
					return http.StatusBadGateway, "upstream down"
				}
				return http.StatusOK, sampleCSV
			},
			maxTries:  3,
			wantRows:  3,
			wantCalls: 3,
		},
		{
			name:         "gives up after max tries",
			handler:      func(int32) (int, string) { return http.StatusServiceUnavailable, "" },
			maxTries:     2,
			wantErr:      true,
			wantCalls:    2,
			wantContains: "503",
		},
		{
			name:         "client error is permanent",
			handler:      func(int32) (int, string) { return http.StatusNotFound, "" },
			maxTries:     5,
			wantErr:      true,
			wantCalls:    1,
			wantContains: "404",
		},
		{
			name:         "malformed data is permanent",
			handler:      func(int32) (int, string) { return http.StatusOK, "date,store_nbr\n2016-01-01,1\n" },
			maxTries:     5,
			wantErr:      true,
			wantCalls:    1,
			wantContains: "missing column",
		},
		{
			name:         "body over limit is permanent",
			handler:      func(int32) (int, string) { return http.StatusOK, sampleCSV },
			maxTries:     5,
			maxBody:      32,
			wantErr:      true,
			wantCalls:    1,
			wantContains: "exceeds",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				code, body := tc.handler(n)
				w.WriteHeader(code)
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			records, err := newTestHTTPSource(srv.URL, tc.maxTries, tc.maxBody).Fetch(context.Background())
			require.Equal(t, tc.wantCalls, atomic.LoadInt32(&calls))
			if tc.wantErr {
				require.Error(t, err)
				require.True(t, strings.Contains(err.Error(), tc.wantContains), "error %q", err)
				return
			}
			require.NoError(t, err)
			require.Len(t, records, tc.wantRows)
		})
	}
}

func TestHTTPSource_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestHTTPSource(srv.URL, 3, 0).Fetch(ctx)
	require.Error(t, err)
}

func TestStatusError_Temporary(t *testing.T) {
	require.True(t, (&StatusError{Code: 500}).Temporary())
	require.True(t, (&StatusError{Code: 429}).Temporary())
	require.False(t, (&StatusError{Code: 403}).Temporary())
}

package pprofserver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/myrjola/fraudintake/internal/pprofserver"
	"github.com/stretchr/testify/require"
)

func TestHandle(t *testing.T) {
	mux := http.NewServeMux()
	pprofserver.Handle(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL + "/debug/pprof/cmdline")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

package fritzbox

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validSession() Session {
	return Session{SID: testSID, ExpiresAt: time.Now().Add(time.Hour)}
}

func TestResolveEndpoint_TriesCandidatesInOrder(t *testing.T) {
	fb := newFakeBox(t)
	fb.removeQuery("/luaquery.lua")
	fb.setQuery("/query.lua", http.StatusOK, `{"query":[]}`)
	fb.setQuery("/data.lua", http.StatusOK, `[]`)

	var probed []string
	c := fb.client(newFakeClock(),
		WithEndpoints([]string{"/luaquery.lua", "/broken.lua", "/query.lua", "/data.lua"}),
		WithProbeObserver(func(endpoint string, ok bool) { probed = append(probed, endpoint) }),
	)
	fb.setQuery("/broken.lua", http.StatusInternalServerError, "")

	endpoint, err := c.ResolveEndpoint(context.Background(), validSession())
	require.NoError(t, err)
	require.Equal(t, Endpoint("/query.lua"), endpoint)
	require.Equal(t, []string{"/luaquery.lua", "/broken.lua", "/query.lua"}, fb.paths())
	require.Equal(t, fb.paths(), probed)
}

func TestResolveEndpoint_SkipsNetworkErrors(t *testing.T) {
	fb := newFakeBox(t)
	fb.hangup["/luaquery.lua"] = true
	fb.setQuery("/query.lua", http.StatusOK, `{"query":[]}`)
	c := fb.client(newFakeClock())

	endpoint, err := c.ResolveEndpoint(context.Background(), validSession())
	require.NoError(t, err)
	require.Equal(t, Endpoint("/query.lua"), endpoint)
}

func TestResolveEndpoint_NoCandidateWorks(t *testing.T) {
	fb := newFakeBox(t)
	fb.removeQuery("/luaquery.lua")
	c := fb.client(newFakeClock())

	endpoint, err := c.ResolveEndpoint(context.Background(), validSession())
	require.ErrorIs(t, err, ErrEndpointNotFound)
	require.Empty(t, endpoint)
	require.Equal(t, DefaultEndpoints, fb.paths())
}

func TestResolveEndpoint_StopsWhenCancelled(t *testing.T) {
	fb := newFakeBox(t)
	c := fb.client(newFakeClock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ResolveEndpoint(ctx, validSession())
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, fb.paths())
}

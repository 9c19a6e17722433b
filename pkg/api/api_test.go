package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"parley/pkg/api"
	"parley/pkg/auth"
	"parley/pkg/service"
	"parley/pkg/store"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	require.NoError(t, store.Open(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	svc := service.New(auth.NewSessions("test-secret"), nil, "http://localhost:8080", nil)
	srv := httptest.NewServer(api.New(svc).Router())
	t.Cleanup(srv.Close)
	return srv
}

// call sends a JSON request and decodes the JSON response into out (when
// non-nil), returning the status code.
func call(t *testing.T, srv *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Token", token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func registerUser(t *testing.T, srv *httptest.Server, email string) service.AuthResponse {
	t.Helper()
	var out service.AuthResponse
	code := call(t, srv, http.MethodPost, "/auth/register/v3", "", map[string]any{
		"email": email, "password": "hunter22", "nameFirst": "Ada", "nameLast": "Begum",
	}, &out)
	require.Equal(t, http.StatusOK, code)
	return out
}

func TestRegisterAndChannelFlow(t *testing.T) {
	srv := newServer(t)
	u := registerUser(t, srv, "ada@example.com")

	var created struct {
		ChannelID int64 `json:"channelId"`
	}
	code := call(t, srv, http.MethodPost, "/channels/create/v3", u.Token,
		map[string]any{"name": "general", "isPublic": true}, &created)
	require.Equal(t, http.StatusOK, code)

	var list struct {
		Channels []service.ChannelSummary `json:"channels"`
	}
	code = call(t, srv, http.MethodGet, "/channels/list/v3", u.Token, nil, &list)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, list.Channels, 1)
	require.Equal(t, "general", list.Channels[0].Name)

	var sent struct {
		MessageID int64 `json:"messageId"`
	}
	code = call(t, srv, http.MethodPost, "/message/send/v2", u.Token,
		map[string]any{"channelId": created.ChannelID, "message": "hello"}, &sent)
	require.Equal(t, http.StatusOK, code)

	var page struct {
		Messages []struct {
			MessageID int64  `json:"messageId"`
			Message   string `json:"message"`
		} `json:"messages"`
		Start int64 `json:"start"`
		End   int64 `json:"end"`
	}
	code = call(t, srv, http.MethodGet,
		"/channel/messages/v3?channelId=0&start=0", u.Token, nil, &page)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, page.Messages, 1)
	require.Equal(t, "hello", page.Messages[0].Message)
	require.Equal(t, int64(-1), page.End)
}

func TestErrorStatusMapping(t *testing.T) {
	srv := newServer(t)
	u := registerUser(t, srv, "ada@example.com")

	// no token -> 401
	code := call(t, srv, http.MethodGet, "/channels/list/v3", "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, code)

	// unknown channel -> 404
	code = call(t, srv, http.MethodGet, "/channel/details/v3?channelId=99", u.Token, nil, nil)
	require.Equal(t, http.StatusNotFound, code)

	// non-member details -> 403
	other := registerUser(t, srv, "ben@example.com")
	var created struct {
		ChannelID int64 `json:"channelId"`
	}
	call(t, srv, http.MethodPost, "/channels/create/v3", u.Token,
		map[string]any{"name": "general", "isPublic": true}, &created)
	code = call(t, srv, http.MethodGet, "/channel/details/v3?channelId=0", other.Token, nil, nil)
	require.Equal(t, http.StatusForbidden, code)

	// bad value -> 400
	code = call(t, srv, http.MethodPost, "/channels/create/v3", u.Token,
		map[string]any{"name": "", "isPublic": true}, nil)
	require.Equal(t, http.StatusBadRequest, code)

	// malformed query -> 400
	code = call(t, srv, http.MethodGet, "/channel/messages/v3?channelId=abc&start=0", u.Token, nil, nil)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestShareRequiresExactlyOneTarget(t *testing.T) {
	srv := newServer(t)
	u := registerUser(t, srv, "ada@example.com")
	var created struct {
		ChannelID int64 `json:"channelId"`
	}
	call(t, srv, http.MethodPost, "/channels/create/v3", u.Token,
		map[string]any{"name": "general", "isPublic": true}, &created)
	var sent struct {
		MessageID int64 `json:"messageId"`
	}
	call(t, srv, http.MethodPost, "/message/send/v2", u.Token,
		map[string]any{"channelId": created.ChannelID, "message": "hello"}, &sent)

	code := call(t, srv, http.MethodPost, "/message/share/v1", u.Token, map[string]any{
		"ogMessageId": sent.MessageID, "message": "note ", "channelId": created.ChannelID, "dmId": created.ChannelID,
	}, nil)
	require.Equal(t, http.StatusBadRequest, code)

	var shared struct {
		SharedMessageID int64 `json:"sharedMessageId"`
	}
	code = call(t, srv, http.MethodPost, "/message/share/v1", u.Token, map[string]any{
		"ogMessageId": sent.MessageID, "message": "note ", "channelId": created.ChannelID, "dmId": -1,
	}, &shared)
	require.Equal(t, http.StatusOK, code)
	require.NotEqual(t, sent.MessageID, shared.SharedMessageID)
}

func TestClearEndpoint(t *testing.T) {
	srv := newServer(t)
	u := registerUser(t, srv, "ada@example.com")

	code := call(t, srv, http.MethodDelete, "/clear/v1", "", nil, nil)
	require.Equal(t, http.StatusOK, code)

	code = call(t, srv, http.MethodGet, "/channels/list/v3", u.Token, nil, nil)
	require.Equal(t, http.StatusUnauthorized, code)
}

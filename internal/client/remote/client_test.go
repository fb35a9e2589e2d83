package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/offlinesync/internal/client/remote/remotetest"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/pkg/api"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.Nil(t, client.httpClient.Transport)

	client = NewClient("http://localhost:8080", WithTimeout(5*time.Second), WithLogger(testLogger()))
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.IsType(t, &loggingTransport{}, client.httpClient.Transport)
}

func TestClient_InsertUpdateDelete(t *testing.T) {
	ctx := context.Background()
	server := remotetest.NewServer(t)
	client := NewClient(server.URL, WithAccessToken("opaque-token"))

	inserted, err := client.Insert(ctx, "todo", models.Item{"id": "1", "text": "milk"})
	require.NoError(t, err)
	assert.Equal(t, "1", inserted.ID())
	assert.NotEmpty(t, inserted.Version())

	inserted["text"] = "bread"
	updated, err := client.Update(ctx, "todo", inserted)
	require.NoError(t, err)
	assert.Equal(t, "bread", updated["text"])
	assert.NotEqual(t, inserted.Version(), updated.Version())

	require.NoError(t, client.Delete(ctx, "todo", updated))
	assert.True(t, server.Item("todo", "1").IsDeleted())

	requests := server.Requests()
	require.Len(t, requests, 3)
	for _, r := range requests {
		assert.Equal(t, api.APIVersion, r.Header.Get(api.HeaderAPIVersion))
		assert.Equal(t, "OL", r.Header.Get(api.HeaderFeatures))
		assert.Equal(t, "Bearer opaque-token", r.Header.Get("Authorization"))
	}
	assert.Equal(t, http.MethodPost, requests[0].Method)
	assert.Empty(t, requests[0].Header.Get(api.HeaderIfMatch))
	assert.Equal(t, http.MethodPatch, requests[1].Method)
	assert.Equal(t, `"`+inserted.Version()+`"`, requests[1].Header.Get(api.HeaderIfMatch))
	assert.Equal(t, http.MethodDelete, requests[2].Method)
	assert.Equal(t, "1", requests[2].ItemID)
}

func TestClient_ConflictCarriesServerItem(t *testing.T) {
	ctx := context.Background()
	server := remotetest.NewServer(t)
	server.Seed("todo", models.Item{"id": "1", "text": "server"})
	client := NewClient(server.URL)

	_, err := client.Update(ctx, "todo", models.Item{"id": "1", "version": "stale", "text": "client"})
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusPreconditionFailed, httpErr.StatusCode)
	require.NotNil(t, httpErr.Item)
	assert.Equal(t, "server", httpErr.Item["text"])
	assert.Equal(t, http.StatusPreconditionFailed, StatusCode(err))
	assert.False(t, errors.Is(err, ErrUnauthorized))

	_, err = client.Insert(ctx, "todo", models.Item{"id": "1"})
	assert.Equal(t, http.StatusConflict, StatusCode(err))
}

func TestClient_ErrorClassification(t *testing.T) {
	ctx := context.Background()
	server := remotetest.NewServer(t)
	client := NewClient(server.URL)

	tests := []struct {
		name     string
		failure  remotetest.Failure
		wantAuth bool
		wantItem bool
	}{
		{
			name:     "unauthorized",
			failure:  remotetest.Failure{Status: http.StatusUnauthorized, Body: api.ErrorResponse{Error: "token required"}},
			wantAuth: true,
		},
		{
			name:     "forbidden",
			failure:  remotetest.Failure{Status: http.StatusForbidden},
			wantAuth: true,
		},
		{
			name:    "validation",
			failure: remotetest.Failure{Status: http.StatusBadRequest, Body: api.ErrorResponse{Error: "text is required"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server.FailNext(tt.failure)
			_, err := client.Insert(ctx, "todo", models.Item{"id": "x"})
			require.Error(t, err)
			assert.Equal(t, tt.wantAuth, errors.Is(err, ErrUnauthorized))
			assert.Equal(t, tt.failure.Status, StatusCode(err))
			assert.False(t, errors.Is(err, ErrNetwork))

			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Nil(t, httpErr.Item, "error bodies are not items")
		})
	}

	err := client.Delete(ctx, "todo", models.Item{"id": "missing"})
	assert.True(t, IsNotFound(err))
}

func TestClient_NetworkError(t *testing.T) {
	server := remotetest.NewServer(t)
	baseURL := server.URL
	server.Close()

	client := NewClient(baseURL, WithTimeout(time.Second))
	_, err := client.Insert(context.Background(), "todo", models.Item{"id": "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClient_ContextCancelled(t *testing.T) {
	server := remotetest.NewServer(t)
	client := NewClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Read(ctx, "todo", url.Values{}, api.FeatureOffline)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrNetwork))
}

func TestClient_ExpiredTokenFailsWithoutRequest(t *testing.T) {
	server := remotetest.NewServer(t)

	expired := signToken(t, time.Now().Add(-time.Minute))
	client := NewClient(server.URL, WithAccessToken(expired))

	_, err := client.Insert(context.Background(), "todo", models.Item{"id": "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, server.Requests())

	valid := signToken(t, time.Now().Add(time.Hour))
	client = NewClient(server.URL, WithAccessToken(valid))
	_, err = client.Insert(context.Background(), "todo", models.Item{"id": "1"})
	require.NoError(t, err)
	assert.Len(t, server.Requests(), 1)
}

func TestClient_ReadPage(t *testing.T) {
	ctx := context.Background()
	server := remotetest.NewServer(t)
	server.Seed("todo",
		models.Item{"id": "a"},
		models.Item{"id": "b"},
		models.Item{"id": "c", "deleted": true},
	)
	client := NewClient(server.URL)

	page, err := client.Read(ctx, "todo", url.Values{}, api.FeatureOffline|api.FeatureIncrementalPull)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Nil(t, page.Link)
	assert.Nil(t, page.Count)

	params := url.Values{}
	params.Set(api.ParamIncludeDeleted, "true")
	params.Set(api.ParamInlineCount, "allpages")
	params.Set(api.ParamTop, "2")
	page, err = client.Read(ctx, "todo", params, api.FeatureOffline)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	require.NotNil(t, page.Count)
	assert.Equal(t, int64(3), *page.Count)

	requests := server.Requests()
	assert.Equal(t, "IP,OL", requests[0].Header.Get(api.HeaderFeatures))
	assert.Equal(t, "true", requests[1].Query.Get(api.ParamIncludeDeleted))
}

func TestClient_ReadLinkResolvesRelative(t *testing.T) {
	ctx := context.Background()
	server := remotetest.NewServer(t)
	server.Seed("todo", models.Item{"id": "a"}, models.Item{"id": "b"})
	client := NewClient(server.URL)

	page, err := client.ReadLink(ctx, "tables/todo?$skip=1", api.FeatureOffline)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "b", page.Items[0].ID())

	page, err = client.ReadLink(ctx, server.URL+"/tables/todo?$top=1", api.FeatureOffline)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

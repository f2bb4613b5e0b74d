package directory_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/magodo/slog2hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/scim-gateway/internal/directory"
	"github.com/openkcm/scim-gateway/internal/paging"
	"github.com/openkcm/scim-gateway/pkg/clients/graph"
	"github.com/openkcm/scim-gateway/pkg/config"
)

const testToken = "test-token"

func testLogger() hclog.Logger {
	level := new(slog.LevelVar)
	level.Set(slog.LevelError)

	return slog2hclog.New(slog.Default(), level)
}

// recordedRequest captures one upstream call made by the service.
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   map[string]any
}

type fakeUpstream struct {
	t        *testing.T
	requests []recordedRequest
	handler  func(r recordedRequest) (int, string)
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	recorded := recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  map[string]string{},
	}

	for key, values := range r.URL.Query() {
		recorded.Query[key] = values[0]
	}

	if r.Body != nil {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			recorded.Body = body
		}
	}

	f.requests = append(f.requests, recorded)

	status, response := f.handler(recorded)
	w.WriteHeader(status)

	if response != "" {
		_, err := w.Write([]byte(response))
		assert.NoError(f.t, err)
	}
}

func newService(t *testing.T, upstream *fakeUpstream, mode paging.Mode) *directory.Service {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Upstream.Host = server.URL
	cfg.Upstream.Timeout = 5 * time.Second

	client, err := graph.NewClient(cfg, testLogger())
	require.NoError(t, err)

	return directory.NewService(client, mode, testLogger())
}

func TestListUsers(t *testing.T) {
	upstream := &fakeUpstream{handler: func(r recordedRequest) (int, string) {
		return http.StatusOK, `{
			"value": [
				{"id": "1", "userPrincipalName": "a@example.com", "accountEnabled": true},
				{"id": "2", "userPrincipalName": "b@example.com", "accountEnabled": false}
			],
			"@odata.count": 25
		}`
	}}
	upstream.t = t

	svc := newService(t, upstream, paging.ModeFull)

	result, err := svc.ListUsers(t.Context(), testToken, `userName sw "a"`, 11, 10)
	require.NoError(t, err)

	require.Len(t, upstream.requests, 1)
	req := upstream.requests[0]
	assert.Equal(t, "/users", req.Path)
	assert.Equal(t, "userPrincipalName startswith 'a'", req.Query["$filter"])
	assert.Equal(t, "10", req.Query["$skip"])
	assert.Equal(t, "10", req.Query["$top"])
	assert.Equal(t, "true", req.Query["$count"])

	assert.Equal(t, 25, result.TotalResults)
	assert.Equal(t, 11, result.StartIndex)
	assert.Equal(t, 10, result.ItemsPerPage)
	require.Len(t, result.Resources, 2)
	assert.Equal(t, "a@example.com", result.Resources[0]["userName"])
	assert.Equal(t, false, result.Resources[1]["active"])
}

func TestListUsersUnsupportedFilterDegrades(t *testing.T) {
	upstream := &fakeUpstream{handler: func(r recordedRequest) (int, string) {
		return http.StatusOK, `{"value": []}`
	}}
	upstream.t = t

	svc := newService(t, upstream, paging.ModeFull)

	_, err := svc.ListUsers(t.Context(), testToken, `userName eq "a" and active eq true`, 1, 100)
	require.NoError(t, err)

	require.Len(t, upstream.requests, 1)
	assert.NotContains(t, upstream.requests[0].Query, "$filter")
}

func TestListUsersFirstPageOnlyMode(t *testing.T) {
	upstream := &fakeUpstream{handler: func(r recordedRequest) (int, string) {
		return http.StatusOK, `{"value": [{"id": "1"}]}`
	}}
	upstream.t = t

	svc := newService(t, upstream, paging.ModeFirstPageOnly)

	_, err := svc.ListUsers(t.Context(), testToken, "", 2, 100)
	assert.ErrorIs(t, err, paging.ErrUnsupported)
	assert.Empty(t, upstream.requests, "no upstream call for rejected pagination")

	result, err := svc.ListUsers(t.Context(), testToken, "", 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalResults)

	req := upstream.requests[0]
	assert.NotContains(t, req.Query, "$skip")
	assert.NotContains(t, req.Query, "$count")
	assert.Equal(t, "100", req.Query["$top"])
}

func TestCreateUser(t *testing.T) {
	upstream := &fakeUpstream{handler: func(r recordedRequest) (int, string) {
		return http.StatusCreated, `{"id": "new-user", "userPrincipalName": "a@example.com", "accountEnabled": true}`
	}}
	upstream.t = t

	svc := newService(t, upstream, paging.ModeFull)

	created, err := svc.CreateUser(t.Context(), testToken, map[string]any{
		"userName": "a@example.com",
		"name":     map[string]any{"givenName": "Ann"},
	})
	require.NoError(t, err)
	assert.Equal(t, "new-user", created["id"])

	require.Len(t, upstream.requests, 1)
	body := upstream.requests[0].Body
	assert.Equal(t, "a@example.com", body["userPrincipalName"])
	assert.Equal(t, "Ann", body["givenName"])

	profile, ok := body["passwordProfile"].(map[string]any)
	require.True(t, ok, "password profile synthesized for new users")
	assert.Equal(t, true, profile["forceChangePasswordNextSignIn"])
	password, _ := profile["password"].(string)
	assert.Len(t, password, 16)
}

func TestCreateUserValidation(t *testing.T) {
	upstream := &fakeUpstream{handler: func(r recordedRequest) (int, string) {
		return http.StatusCreated, `{}`
	}}
	upstream.t = t

	svc := newService(t, upstream, paging.ModeFull)

	_, err := svc.CreateUser(t.Context(), testToken, map[string]any{"displayName": "No Name"})

	var validationErr *directory.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "userName", validationErr.Field)
	assert.Empty(t, upstream.requests, "validation fails before any network call")
}

func TestCreateGroupDefaults(t *testing.T) {
	upstream := &fakeUpstream{handler: func(r recordedRequest) (int, string) {
		return http.StatusCreated, `{"id": "g-1", "displayName": "Engineering"}`
	}}
	upstream.t = t

	svc := newService(t, upstream, paging.ModeFull)

	created, err := svc.CreateGroup(t.Context(), testToken, map[string]any{"displayName": "Engineering"})
	require.NoError(t, err)
	assert.Equal(t, "g-1", created["id"])

	body := upstream.requests[0].Body
	assert.Equal(t, true, body["securityEnabled"])
	assert.Equal(t, false, body["mailEnabled"])
}

func TestCreateGroupValidation(t *testing.T) {
	upstream := &fakeUpstream{handler: func(r recordedRequest) (int, string) {
		return http.StatusCreated, `{}`
	}}
	upstream.t = t

	svc := newService(t, upstream, paging.ModeFull)

	_, err := svc.CreateGroup(t.Context(), testToken, map[string]any{})

	var validationErr *directory.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "displayName", validationErr.Field)
	assert.Empty(t, upstream.requests)
}

func TestUpdateUserReReads(t *testing.T) {
	upstream := &fakeUpstream{}
	upstream.t = t
	upstream.handler = func(r recordedRequest) (int, string) {
		if r.Method == http.MethodPatch {
			return http.StatusNoContent, ""
		}

		return http.StatusOK, `{"id": "42", "userPrincipalName": "a@example.com", "displayName": "Updated"}`
	}

	svc := newService(t, upstream, paging.ModeFull)

	updated, err := svc.UpdateUser(t.Context(), testToken, "42", map[string]any{"displayName": "Updated"})
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated["displayName"])

	require.Len(t, upstream.requests, 2)
	assert.Equal(t, http.MethodPatch, upstream.requests[0].Method)
	assert.Equal(t, "/users/42", upstream.requests[0].Path)
	assert.Equal(t, http.MethodGet, upstream.requests[1].Method)
	assert.Equal(t, "/users/42", upstream.requests[1].Path)
}

func TestDeleteUser(t *testing.T) {
	upstream := &fakeUpstream{handler: func(r recordedRequest) (int, string) {
		return http.StatusNoContent, ""
	}}
	upstream.t = t

	svc := newService(t, upstream, paging.ModeFull)

	err := svc.DeleteUser(t.Context(), testToken, "42")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, upstream.requests[0].Method)
}

func TestCreateApplicationWithServicePrincipalCompensation(t *testing.T) {
	upstream := &fakeUpstream{}
	upstream.t = t
	upstream.handler = func(r recordedRequest) (int, string) {
		switch {
		case r.Method == http.MethodPost && r.Path == "/applications":
			return http.StatusCreated, `{"id": "app-1", "appId": "client-1", "displayName": "My App"}`
		case r.Method == http.MethodPost && r.Path == "/servicePrincipals":
			return http.StatusForbidden, `{"error": {"message": "Insufficient privileges"}}`
		case r.Method == http.MethodDelete && r.Path == "/applications/app-1":
			return http.StatusNoContent, ""
		default:
			return http.StatusNotFound, `{}`
		}
	}

	svc := newService(t, upstream, paging.ModeFull)

	_, err := svc.CreateApplicationWithServicePrincipal(t.Context(), testToken, map[string]any{
		"displayName": "My App",
	})
	require.Error(t, err)

	var graphErr *graph.Error
	require.ErrorAs(t, err, &graphErr)
	assert.Equal(t, http.StatusForbidden, graphErr.StatusCode)
	assert.Equal(t, "Graph API error: Insufficient privileges", graphErr.Error())

	require.Len(t, upstream.requests, 3)
	assert.Equal(t, http.MethodDelete, upstream.requests[2].Method)
	assert.Equal(t, "/applications/app-1", upstream.requests[2].Path)
}

func TestCreateApplicationWithServicePrincipalSuccess(t *testing.T) {
	upstream := &fakeUpstream{}
	upstream.t = t
	upstream.handler = func(r recordedRequest) (int, string) {
		if r.Path == "/applications" {
			return http.StatusCreated, `{"id": "app-1", "appId": "client-1", "displayName": "My App"}`
		}

		return http.StatusCreated, `{"id": "sp-1", "appId": "client-1", "displayName": "My App"}`
	}

	svc := newService(t, upstream, paging.ModeFull)

	result, err := svc.CreateApplicationWithServicePrincipal(t.Context(), testToken, map[string]any{
		"displayName": "My App",
	})
	require.NoError(t, err)

	app, ok := result["application"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "app-1", app["id"])

	sp, ok := result["servicePrincipal"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sp-1", sp["id"])

	spCreate := upstream.requests[1]
	assert.Equal(t, "client-1", spCreate.Body["appId"])
	assert.Equal(t, "My App", spCreate.Body["displayName"])
}

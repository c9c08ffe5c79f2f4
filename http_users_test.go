package useradmin_test

import (
	"testing"

	useradmin "github.com/goliatone/go-useradmin"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routeRecorder struct {
	routes map[string][]string
}

func newRouteRecorder() *routeRecorder {
	return &routeRecorder{routes: map[string][]string{}}
}

func (r *routeRecorder) record(method, path string) router.RouteInfo {
	r.routes[method] = append(r.routes[method], path)
	var info router.RouteInfo
	return info
}

func (r *routeRecorder) Get(path string, h router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	return r.record("GET", path)
}

func (r *routeRecorder) Post(path string, h router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	return r.record("POST", path)
}

func (r *routeRecorder) Patch(path string, h router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	return r.record("PATCH", path)
}

func (r *routeRecorder) Delete(path string, h router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	return r.record("DELETE", path)
}

func passthrough(next router.HandlerFunc) router.HandlerFunc { return next }

func TestUsersControllerRoutes(t *testing.T) {
	repos := NewMockRepositoryManager()
	creator := useradmin.NewCreateUserHandler(repos, &MockMailer{}, "http://app.example.com")
	controller := useradmin.NewUsersController(repos, creator)

	rec := newRouteRecorder()
	controller.RegisterRoutes(rec, passthrough)

	assert.Equal(t, []string{"/users", "/users/me", "/users/:id", "/roles"}, rec.routes["GET"])
	assert.Equal(t, []string{"/users"}, rec.routes["POST"])
	assert.Equal(t, []string{"/users/me", "/users/:id"}, rec.routes["PATCH"])
	assert.Equal(t, []string{"/users/:id"}, rec.routes["DELETE"])

	// the literal segment must come before the parameter so /users/me never
	// resolves as an id lookup
	gets := rec.routes["GET"]
	require.Contains(t, gets, "/users/me")
	require.Contains(t, gets, "/users/:id")
	assert.Less(t, indexOf(gets, "/users/me"), indexOf(gets, "/users/:id"))
}

func TestAuthControllerRoutes(t *testing.T) {
	repos := NewMockRepositoryManager()
	auther := useradmin.NewAuthenticator(repos, testConfig{})

	rec := newRouteRecorder()
	useradmin.NewAuthController(auther).RegisterRoutes(rec, passthrough)

	assert.Equal(t, []string{
		"/auth/login",
		"/auth/change-password",
		"/auth/change-password-with-token/:token",
	}, rec.routes["POST"])
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}

// Package app assembles the pieces of the round into a processing pipeline:
// a router that dispatches each message to the handler registered for its
// path.
package app

import (
	"regexp"

	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

// isPath is the RegExp to ensure the routes make valid urls.
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different paths and then
// direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux.
type Router struct {
	routes map[string]funding.Handler
}

var _ funding.Registry = (*Router)(nil)
var _ funding.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]funding.Handler, 10),
	}
}

// Handle adds a new Handler for the given path. Panics on duplicate
// registration or an invalid path, as both are programmer errors.
func (r *Router) Handle(path string, h funding.Handler) {
	if !isPath(path) {
		panic("invalid path: " + path)
	}
	if _, ok := r.routes[path]; ok {
		panic("re-registering route: " + path)
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no path is found,
// returns a noSuchPathHandler. Always returns a non-nil Handler.
func (r *Router) handler(path string) funding.Handler {
	h, ok := r.routes[path]
	if !ok {
		return noSuchPathHandler{path: path}
	}
	return h
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx funding.Context, store funding.KVStore, tx funding.Tx) (*funding.CheckResult, error) {
	path := funding.GetPath(tx)
	return r.handler(path).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx funding.Context, store funding.KVStore, tx funding.Tx) (*funding.DeliverResult, error) {
	path := funding.GetPath(tx)
	return r.handler(path).Deliver(ctx, store, tx)
}

type noSuchPathHandler struct {
	path string
}

var _ funding.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(funding.Context, funding.KVStore, funding.Tx) (*funding.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

func (h noSuchPathHandler) Deliver(funding.Context, funding.KVStore, funding.Tx) (*funding.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

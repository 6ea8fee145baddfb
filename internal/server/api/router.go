package api

import (
	"context"
	"log/slog"
	"net"
	"net/url"
	"strings"
)

// Request contains route parameters and additional args from the command.
type Request struct {
	Ctx     context.Context
	Params  map[string]string
	Payload string
}

// Response holds the JSON string to return to the client.
type Response struct {
	JSON string
}

// HandlerFunc processes a request and populates the response.
// Returns an error on failure. The logger provided is a connection-scoped logger
// enriched with remote address metadata by the API server.
type HandlerFunc func(req *Request, res *Response, logger *slog.Logger) error

// StreamHandlerFunc handles long-lived connections. The handler takes
// ownership of conn and should close it when done. A returned error is logged
// by the server.
type StreamHandlerFunc func(conn net.Conn, req *Request, logger *slog.Logger) error

// Router implements simple path pattern matching with placeholders in {name}.
// Literal segments match case-insensitively; parameter values keep their case.
type Router struct {
	routes       []route[HandlerFunc]
	streamRoutes []route[StreamHandlerFunc]
}

type route[H any] struct {
	pattern string
	parts   []string
	names   []string
	handler H
}

func newRoute[H any](pattern string, h H) route[H] {
	original := strings.Split(pattern, "/")
	parts := make([]string, len(original))
	names := make([]string, len(original))
	for i, p := range original {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			names[i] = p[1 : len(p)-1]
			continue
		}
		parts[i] = strings.ToLower(p)
	}
	return route[H]{pattern: pattern, parts: parts, names: names, handler: h}
}

func (rt route[H]) match(segments []string) (map[string]string, bool) {
	if len(rt.parts) != len(segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range segments {
		if rt.names[i] != "" {
			if seg == "" {
				return nil, false
			}
			if v, err := url.PathUnescape(seg); err == nil {
				seg = v
			}
			params[rt.names[i]] = seg
			continue
		}
		if rt.parts[i] != strings.ToLower(seg) {
			return nil, false
		}
	}
	return params, true
}

// NewRouter returns a new Router instance.
func NewRouter() *Router { return &Router{} }

// Register registers a handler for a path pattern like "profile/{id}/get".
func (r *Router) Register(pattern string, handler HandlerFunc) {
	r.routes = append(r.routes, newRoute(pattern, handler))
}

// RegisterStream registers a StreamHandler for long-lived TCP connections.
func (r *Router) RegisterStream(pattern string, handler StreamHandlerFunc) {
	r.streamRoutes = append(r.streamRoutes, newRoute(pattern, handler))
}

// Match returns the HandlerFunc and params if the given path matches any
// registered pattern. Returns nil if none match.
func (r *Router) Match(path string) (HandlerFunc, map[string]string) {
	segments := strings.Split(path, "/")
	for _, rt := range r.routes {
		if params, ok := rt.match(segments); ok {
			return rt.handler, params
		}
	}
	return nil, nil
}

// MatchStream returns the StreamHandler and params if the given path matches
// any registered stream pattern. Returns nil if none match.
func (r *Router) MatchStream(path string) (StreamHandlerFunc, map[string]string) {
	segments := strings.Split(path, "/")
	for _, rt := range r.streamRoutes {
		if params, ok := rt.match(segments); ok {
			return rt.handler, params
		}
	}
	return nil, nil
}

// Patterns lists the registered request/response patterns in registration order.
func (r *Router) Patterns() []string {
	out := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, rt.pattern)
	}
	return out
}

// Package router assembles gin route groups. Webhook endpoints are mounted at
// the engine root because gateways are configured with a fixed URL; everything
// else lives under the versioned API prefix.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar adds its routes to a gin group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

type mount struct {
	versioned bool
	registrar RouteRegistrar
}

// Router mounts registrars on an engine
type Router struct {
	engine     *gin.Engine
	apiVersion string
	mounts     []mount
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of /api/<version>
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a Router for engine; the API version defaults to v1
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register mounts registrar under /api/<version>
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.mounts = append(r.mounts, mount{versioned: true, registrar: registrar})
	return r
}

// RegisterRoot mounts registrar at the engine root
func (r *Router) RegisterRoot(registrar RouteRegistrar) *Router {
	r.mounts = append(r.mounts, mount{registrar: registrar})
	return r
}

// Setup registers every mounted route and returns the number of routes on the engine
func (r *Router) Setup() int {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, m := range r.mounts {
		if m.versioned {
			m.registrar.RegisterRoutes(api)
			continue
		}
		m.registrar.RegisterRoutes(&r.engine.RouterGroup)
	}
	return len(r.engine.Routes())
}

// DomainGroup collects the routes of one area of the service before they are
// bound to the engine
type DomainGroup struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	children   []*DomainGroup
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a group mounted at prefix
func NewDomainGroup(prefix string) *DomainGroup {
	return &DomainGroup{prefix: prefix}
}

// Use appends middleware that runs for every route of the group and its children
func (g *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// GET registers a GET route
func (g *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	g.routes = append(g.routes, route{http.MethodGet, path, handlers})
	return g
}

// POST registers a POST route
func (g *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	g.routes = append(g.routes, route{http.MethodPost, path, handlers})
	return g
}

// Group returns a child group nested under this group's prefix
func (g *DomainGroup) Group(prefix string) *DomainGroup {
	child := NewDomainGroup(prefix)
	g.children = append(g.children, child)
	return child
}

// RegisterRoutes implements RouteRegistrar
func (g *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(g.prefix, g.middleware...)
	for _, rt := range g.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, child := range g.children {
		child.RegisterRoutes(group)
	}
}

// Prefix returns the mount prefix of the group
func (g *DomainGroup) Prefix() string {
	return g.prefix
}

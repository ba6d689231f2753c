// package router wraps http.ServeMux and records enough about every route to
// emit an OpenAPI 3 document
package router

import (
	"fmt"
	"net/http"
	"strings"
)

// Middleware wraps a handler
type Middleware func(http.Handler) http.Handler

// RouteResponse documents the response for one HTTP status code
type RouteResponse struct {
	StatusCode  string
	Description string
	Schema      any
	Examples    []Example
}

// Example is a documented example body
type Example struct {
	ContentType string
	Value       string
}

// PathParam documents a path parameter. Type is an OpenAPI primitive type
// and defaults to "string"
type PathParam struct {
	Name        string
	Type        string
	Description string
}

// RouteInfo stores documentation for a route
type RouteInfo struct {
	Method        string
	Path          string
	Name          string
	Description   string
	Handler       http.Handler
	RequestType   any
	ResponseType  any
	SuccessStatus string
	Responses     map[string]RouteResponse
	PathParams    []PathParam
	Tags          []string
	Hidden        bool
}

type server struct {
	URL         string
	Description string
}

type tag struct {
	Name        string
	Description string
}

// DocRouter wraps http.ServeMux to add documentation capabilities
type DocRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	handler     http.Handler
	routes      []RouteInfo

	title       string
	description string
	version     string
	servers     []server
	tags        []tag

	customResponses map[string]map[string]any
	routeResponses  map[string]map[string]string
}

// NewDocRouter creates a new documented router
func NewDocRouter(title, description, version string) *DocRouter {
	mux := http.NewServeMux()
	return &DocRouter{
		mux:             mux,
		handler:         mux,
		routes:          []RouteInfo{},
		title:           title,
		description:     description,
		version:         version,
		customResponses: make(map[string]map[string]any),
		routeResponses:  make(map[string]map[string]string),
	}
}

// WithServer documents a server the API is reachable at
func (dr *DocRouter) WithServer(url, description string) *DocRouter {
	dr.servers = append(dr.servers, server{URL: url, Description: description})
	return dr
}

// WithTag documents a tag used to group operations
func (dr *DocRouter) WithTag(name, description string) *DocRouter {
	dr.tags = append(dr.tags, tag{Name: name, Description: description})
	return dr
}

// RegisterResponse adds a named response under components.responses
func (dr *DocRouter) RegisterResponse(name string, response map[string]any) {
	dr.customResponses[name] = response
}

// RegisterRouteResponse references a named response from the route at
// method and path for statusCode
func (dr *DocRouter) RegisterRouteResponse(path, method, statusCode, responseName string) {
	id := routeID(method, path)
	if _, ok := dr.routeResponses[id]; !ok {
		dr.routeResponses[id] = make(map[string]string)
	}
	dr.routeResponses[id][statusCode] = responseName
}

// Use appends middleware. Middleware wraps every route, including the ones
// registered after the call, and runs in the order it was added
func (dr *DocRouter) Use(middleware ...Middleware) {
	dr.middlewares = append(dr.middlewares, middleware...)

	var handler http.Handler = dr.mux
	for i := len(dr.middlewares) - 1; i >= 0; i-- {
		handler = dr.middlewares[i](handler)
	}
	dr.handler = handler
}

// GetRoutes returns all documented routes
func (dr *DocRouter) GetRoutes() []RouteInfo {
	return dr.routes
}

// ServeHTTP makes DocRouter implement the http.Handler interface
func (dr *DocRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dr.handler.ServeHTTP(w, r)
}

// Route starts a route configuration chain
func (dr *DocRouter) Route(method, path string, handler http.HandlerFunc) *RouteConfig {
	return &RouteConfig{
		router: dr,
		info: RouteInfo{
			Method:    strings.ToUpper(method),
			Path:      path,
			Handler:   handler,
			Responses: make(map[string]RouteResponse),
		},
	}
}

// RouteConfig is a builder for route configuration
type RouteConfig struct {
	router *DocRouter
	info   RouteInfo
}

// WithName sets the operation summary
func (rc *RouteConfig) WithName(name string) *RouteConfig {
	rc.info.Name = name
	return rc
}

// WithDescription sets the operation description
func (rc *RouteConfig) WithDescription(description string) *RouteConfig {
	rc.info.Description = description
	return rc
}

// WithRequest sets the request body type
func (rc *RouteConfig) WithRequest(requestType any) *RouteConfig {
	rc.info.RequestType = requestType
	return rc
}

// WithResponse sets the success response body type
func (rc *RouteConfig) WithResponse(responseType any) *RouteConfig {
	rc.info.ResponseType = responseType
	return rc
}

// WithStatus sets the success status code, "200" when unset
func (rc *RouteConfig) WithStatus(statusCode int) *RouteConfig {
	rc.info.SuccessStatus = fmt.Sprint(statusCode)
	return rc
}

// WithErrorResponse documents a non-success response
func (rc *RouteConfig) WithErrorResponse(statusCode int, description string, schema any, examples ...Example) *RouteConfig {
	code := fmt.Sprint(statusCode)
	rc.info.Responses[code] = RouteResponse{
		StatusCode:  code,
		Description: description,
		Schema:      schema,
		Examples:    examples,
	}
	return rc
}

// WithPathParam documents a path parameter
func (rc *RouteConfig) WithPathParam(name, typ, description string) *RouteConfig {
	rc.info.PathParams = append(rc.info.PathParams, PathParam{Name: name, Type: typ, Description: description})
	return rc
}

// WithTags sets the operation tags
func (rc *RouteConfig) WithTags(tags ...string) *RouteConfig {
	rc.info.Tags = tags
	return rc
}

// Hidden serves the route without documenting it
func (rc *RouteConfig) Hidden() *RouteConfig {
	rc.info.Hidden = true
	return rc
}

// Register finalizes the route configuration and registers it with the router
func (rc *RouteConfig) Register() {
	rc.router.mux.Handle(rc.info.Method+" "+rc.info.Path, rc.info.Handler)
	rc.router.routes = append(rc.router.routes, rc.info)
}

func routeID(method, path string) string {
	return strings.ToLower(method) + ":" + path
}

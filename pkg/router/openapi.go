package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const openAPIVersion = "3.0.3"

// openAPIGenerator builds one document. A fresh generator is used per call so
// generating never mutates the router
type openAPIGenerator struct {
	router  *DocRouter
	schemas *schemaRegistry
	types   *schemaGenerator
}

func newOpenAPIGenerator(dr *DocRouter) *openAPIGenerator {
	registry := newSchemaRegistry()
	return &openAPIGenerator{
		router:  dr,
		schemas: registry,
		types:   newSchemaGenerator(registry),
	}
}

// OpenAPI returns the OpenAPI document describing every registered route
func (dr *DocRouter) OpenAPI() map[string]any {
	return newOpenAPIGenerator(dr).generate()
}

// OpenAPIJSON returns the indented JSON encoding of OpenAPI
func (dr *DocRouter) OpenAPIJSON() ([]byte, error) {
	return json.MarshalIndent(dr.OpenAPI(), "", "  ")
}

// OpenAPIHandler serves the OpenAPI document as JSON
func (dr *DocRouter) OpenAPIHandler(w http.ResponseWriter, r *http.Request) {
	data, err := dr.OpenAPIJSON()
	if err != nil {
		http.Error(w, "error encoding openapi document", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (g *openAPIGenerator) generate() map[string]any {
	doc := map[string]any{
		"openapi": openAPIVersion,
		"info": map[string]any{
			"title":       g.router.title,
			"description": g.router.description,
			"version":     g.router.version,
		},
		"paths": g.generatePaths(),
	}

	if len(g.router.servers) > 0 {
		servers := make([]any, 0, len(g.router.servers))
		for _, s := range g.router.servers {
			servers = append(servers, map[string]any{"url": s.URL, "description": s.Description})
		}
		doc["servers"] = servers
	}

	if len(g.router.tags) > 0 {
		tags := make([]any, 0, len(g.router.tags))
		for _, t := range g.router.tags {
			tags = append(tags, map[string]any{"name": t.Name, "description": t.Description})
		}
		doc["tags"] = tags
	}

	// paths first: they populate the schema registry
	doc["components"] = g.generateComponents()
	return doc
}

// extractPathParams returns the names of the {param} segments of path
func extractPathParams(path string) []string {
	var params []string
	for _, part := range strings.Split(path, "/") {
		if len(part) > 2 && part[0] == '{' && part[len(part)-1] == '}' {
			name := strings.TrimSuffix(part[1:len(part)-1], "...")
			params = append(params, name)
		}
	}
	return params
}

// generatePathParameters documents every parameter of path, using the
// declared PathParam when there is one
func generatePathParameters(path string, declared []PathParam) []any {
	var parameters []any
	for _, name := range extractPathParams(path) {
		param := PathParam{Name: name, Type: "string", Description: name + " parameter"}
		for _, d := range declared {
			if d.Name != name {
				continue
			}
			if d.Type != "" {
				param.Type = d.Type
			}
			if d.Description != "" {
				param.Description = d.Description
			}
		}

		parameters = append(parameters, map[string]any{
			"name":        param.Name,
			"in":          "path",
			"required":    true,
			"description": param.Description,
			"schema":      map[string]any{"type": param.Type},
		})
	}
	return parameters
}

func operationID(method, path string) string {
	clean := strings.NewReplacer("{", "", "}", "", "...", "").Replace(path)
	clean = strings.Trim(strings.ReplaceAll(clean, "/", "_"), "_")
	if clean == "" {
		clean = "root"
	}
	return strings.ToLower(method) + "_" + clean
}

func (g *openAPIGenerator) generatePaths() map[string]any {
	paths := map[string]any{}

	for _, route := range g.router.routes {
		if route.Hidden {
			continue
		}

		pathItem, ok := paths[route.Path].(map[string]any)
		if !ok {
			pathItem = map[string]any{}
			paths[route.Path] = pathItem
		}

		method := strings.ToLower(route.Method)
		operation := map[string]any{
			"summary":     route.Name,
			"description": route.Description,
			"operationId": operationID(method, route.Path),
			"responses":   g.generateResponses(route),
		}

		if len(route.Tags) > 0 {
			operation["tags"] = route.Tags
		}
		if params := generatePathParameters(route.Path, route.PathParams); len(params) > 0 {
			operation["parameters"] = params
		}
		if route.RequestType != nil && (method == "post" || method == "put" || method == "patch") {
			operation["requestBody"] = g.generateRequestBody(route)
		}

		pathItem[method] = operation
	}

	return paths
}

func (g *openAPIGenerator) generateResponses(route RouteInfo) map[string]any {
	responses := map[string]any{}

	for statusCode, rr := range route.Responses {
		content := map[string]any{}
		if rr.Schema != nil {
			content["schema"] = g.types.schemaRef(rr.Schema)
		}
		if len(rr.Examples) > 0 {
			examples := map[string]any{}
			for i, example := range rr.Examples {
				examples["example"+strconv.Itoa(i+1)] = map[string]any{"value": exampleBody(example)}
			}
			content["examples"] = examples
		}

		response := map[string]any{"description": rr.Description}
		if len(content) > 0 {
			response["content"] = map[string]any{"application/json": content}
		}
		responses[statusCode] = response
	}

	success := route.SuccessStatus
	if success == "" {
		success = "200"
	}
	if _, exists := responses[success]; !exists {
		response := map[string]any{"description": successDescription(success)}
		if route.ResponseType != nil && success != "204" {
			response["content"] = map[string]any{
				"application/json": map[string]any{
					"schema": g.types.schemaRef(route.ResponseType),
				},
			}
		}
		responses[success] = response
	}

	for statusCode, name := range g.router.routeResponses[routeID(route.Method, route.Path)] {
		if _, exists := responses[statusCode]; exists {
			continue
		}
		responses[statusCode] = map[string]any{
			"$ref": "#/components/responses/" + name,
		}
	}

	return responses
}

func successDescription(status string) string {
	code, err := strconv.Atoi(status)
	if err != nil {
		return "successful operation"
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "successful operation"
}

// exampleBody decodes JSON examples so they are embedded as values rather
// than strings
func exampleBody(example Example) any {
	var v any
	if strings.Contains(example.ContentType, "json") && json.Unmarshal([]byte(example.Value), &v) == nil {
		return v
	}
	return example.Value
}

func (g *openAPIGenerator) generateRequestBody(route RouteInfo) map[string]any {
	return map[string]any{
		"description": fmt.Sprintf("request body for %s", route.Name),
		"required":    true,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": g.types.schemaRef(route.RequestType),
			},
		},
	}
}

func (g *openAPIGenerator) generateComponents() map[string]any {
	components := map[string]any{
		"schemas": g.schemas.getSchemas(),
	}
	if len(g.router.customResponses) > 0 {
		components["responses"] = g.router.customResponses
	}
	return components
}

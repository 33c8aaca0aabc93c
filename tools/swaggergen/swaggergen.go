// Command swaggergen generates OpenAPI 3.0 specification files (JSON and YAML)
// for the Star Catalog API and writes them to the api/ directory.
//
// Usage:
//
//	go run ./tools/swaggergen
//
// # For Contributors
//
// When you modify the API (add/change endpoints, request/response schemas, etc.),
// update this file to keep the swagger spec in sync:
//
//  1. Endpoints: Edit buildPaths() to add/modify path items and operations
//  2. Schemas: Edit buildSchemas() to add/modify request/response types
//  3. Regenerate: Run `go run ./tools/swaggergen` from the project root
//  4. Verify: Check api/swagger.yaml and api/swagger.json for correctness
//
// Helper functions:
//   - validationContent(): Returns the per-field validation error content
//   - userIDParam(): Returns the optional user_id query parameter definition
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Lightweight OpenAPI 3.0 types
// ---------------------------------------------------------------------------

type OpenAPI struct {
	OpenAPI    string               `json:"openapi"              yaml:"openapi"`
	Info       Info                 `json:"info"                 yaml:"info"`
	Paths      map[string]*PathItem `json:"paths"                yaml:"paths"`
	Components Components           `json:"components"           yaml:"components"`
}

type Info struct {
	Title       string `json:"title"       yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Version     string `json:"version"     yaml:"version"`
}

type PathItem struct {
	Get    *Operation `json:"get,omitempty"    yaml:"get,omitempty"`
	Post   *Operation `json:"post,omitempty"   yaml:"post,omitempty"`
	Patch  *Operation `json:"patch,omitempty"  yaml:"patch,omitempty"`
	Delete *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`
}

type Operation struct {
	Tags        []string              `json:"tags"                  yaml:"tags"`
	Summary     string                `json:"summary"               yaml:"summary"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string                `json:"operationId"           yaml:"operationId"`
	Security    []map[string][]string `json:"security,omitempty"    yaml:"security,omitempty"`
	Parameters  []Parameter           `json:"parameters,omitempty"  yaml:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response   `json:"responses"             yaml:"responses"`
}

type Parameter struct {
	Name        string `json:"name"        yaml:"name"`
	In          string `json:"in"          yaml:"in"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required"    yaml:"required"`
	Schema      Schema `json:"schema"      yaml:"schema"`
}

type RequestBody struct {
	Required    bool                 `json:"required"              yaml:"required"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Content     map[string]MediaType `json:"content"               yaml:"content"`
}

type MediaType struct {
	Schema Schema `json:"schema" yaml:"schema"`
}

type Response struct {
	Description string               `json:"description"       yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type Schema struct {
	Type                 string            `json:"type,omitempty"                 yaml:"type,omitempty"`
	Format               string            `json:"format,omitempty"               yaml:"format,omitempty"`
	Description          string            `json:"description,omitempty"          yaml:"description,omitempty"`
	Properties           map[string]Schema `json:"properties,omitempty"           yaml:"properties,omitempty"`
	Items                *Schema           `json:"items,omitempty"                yaml:"items,omitempty"`
	Required             []string          `json:"required,omitempty"             yaml:"required,omitempty"`
	Enum                 []string          `json:"enum,omitempty"                 yaml:"enum,omitempty"`
	Ref                  string            `json:"$ref,omitempty"                 yaml:"$ref,omitempty"`
	AdditionalProperties *Schema           `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	OneOf                []Schema          `json:"oneOf,omitempty"                yaml:"oneOf,omitempty"`
	Nullable             bool              `json:"nullable,omitempty"             yaml:"nullable,omitempty"`
	MaxLength            int               `json:"maxLength,omitempty"            yaml:"maxLength,omitempty"`
	Example              any               `json:"example,omitempty"              yaml:"example,omitempty"`
}

type Components struct {
	Schemas         map[string]Schema         `json:"schemas"         yaml:"schemas"`
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes" yaml:"securitySchemes"`
}

type SecurityScheme struct {
	Type         string `json:"type"         yaml:"type"`
	Scheme       string `json:"scheme"       yaml:"scheme"`
	BearerFormat string `json:"bearerFormat" yaml:"bearerFormat"`
	Description  string `json:"description"  yaml:"description"`
}

// ---------------------------------------------------------------------------
// Spec builder
// ---------------------------------------------------------------------------

func buildSpec() OpenAPI {
	bearerAuth := []map[string][]string{{"BearerAuth": {}}}

	return OpenAPI{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       "Star Catalog API",
			Description: "REST API for browsing the movie and planet catalog with per-user favourites and display-name overrides.",
			Version:     "1.0.0",
		},
		Paths: buildPaths(bearerAuth),
		Components: Components{
			Schemas:         buildSchemas(),
			SecuritySchemes: buildSecuritySchemes(),
		},
	}
}

func buildPaths(bearerAuth []map[string][]string) map[string]*PathItem {
	return map[string]*PathItem{
		"/movies/": {
			Get: &Operation{
				Tags:        []string{"Catalog"},
				Summary:     "List movies",
				Description: "Returns the movie catalog. With user_id, each row is annotated with the user's favourite flag and custom title; with title, rows are narrowed to exact matches on the canonical title or (for the given user) the custom title.",
				OperationID: "listMovies",
				Parameters: []Parameter{
					userIDParam(),
					{
						Name:        "title",
						In:          "query",
						Description: "Exact title to filter on (canonical or the user's custom title)",
						Required:    false,
						Schema:      Schema{Type: "string"},
					},
				},
				Responses: map[string]Response{
					"200": {
						Description: "The movie list",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/MovieListResponse"}},
						},
					},
					"400": {Description: "Malformed user_id query parameter", Content: validationContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/planets/": {
			Get: &Operation{
				Tags:        []string{"Catalog"},
				Summary:     "List planets",
				Description: "Returns the planet catalog, with the same user_id/name semantics as the movie listing.",
				OperationID: "listPlanets",
				Parameters: []Parameter{
					userIDParam(),
					{
						Name:        "name",
						In:          "query",
						Description: "Exact name to filter on (canonical or the user's custom name)",
						Required:    false,
						Schema:      Schema{Type: "string"},
					},
				},
				Responses: map[string]Response{
					"200": {
						Description: "The planet list",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/PlanetListResponse"}},
						},
					},
					"400": {Description: "Malformed user_id query parameter", Content: validationContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/favourite/movie/": {
			Post: &Operation{
				Tags:        []string{"Favourites"},
				Summary:     "Favourite a movie",
				Description: "Registers a movie as a favourite of the given user, optionally with a custom title. Each (user_id, movie) pair may be registered once.",
				OperationID: "addFavouriteMovie",
				RequestBody: &RequestBody{
					Required: true,
					Content: map[string]MediaType{
						"application/json": {Schema: Schema{Ref: "#/components/schemas/FavouriteMovieRequest"}},
					},
				},
				Responses: map[string]Response{
					"200": {
						Description: "Favourite stored",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/FavouriteMovieResponse"}},
						},
					},
					"400": {Description: "Validation failure, keyed by field", Content: validationContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/favourite/planet/": {
			Post: &Operation{
				Tags:        []string{"Favourites"},
				Summary:     "Favourite a planet",
				Description: "Registers a planet as a favourite of the given user, optionally with a custom name. Each (user_id, planet) pair may be registered once.",
				OperationID: "addFavouritePlanet",
				RequestBody: &RequestBody{
					Required: true,
					Content: map[string]MediaType{
						"application/json": {Schema: Schema{Ref: "#/components/schemas/FavouritePlanetRequest"}},
					},
				},
				Responses: map[string]Response{
					"200": {
						Description: "Favourite stored",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/FavouritePlanetResponse"}},
						},
					},
					"400": {Description: "Validation failure, keyed by field", Content: validationContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/admin/stats": {
			Get: &Operation{
				Tags:        []string{"Admin"},
				Summary:     "Catalog row counts",
				Description: "Returns the number of rows in each catalog and favourites table.",
				OperationID: "getCatalogStats",
				Security:    bearerAuth,
				Responses: map[string]Response{
					"200": {
						Description: "Row counts per table",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/StatsResponse"}},
						},
					},
					"401": {Description: "Unauthorized - missing or invalid JWT"},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/admin/import": {
			Post: &Operation{
				Tags:        []string{"Admin"},
				Summary:     "Reload the catalog from the upstream API",
				Description: "Synchronously replaces the local catalog with a fresh copy of the upstream one. Favourites referencing replaced rows are dropped.",
				OperationID: "runCatalogImport",
				Security:    bearerAuth,
				Responses: map[string]Response{
					"200": {
						Description: "Import finished",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/ImportResponse"}},
						},
					},
					"401": {Description: "Unauthorized - missing or invalid JWT"},
					"502": {Description: "Upstream catalog unavailable", Content: errContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func userIDParam() Parameter {
	return Parameter{
		Name:        "user_id",
		In:          "query",
		Description: "Caller-supplied user identifier; enables favourite annotation and custom display names",
		Required:    false,
		Schema:      Schema{Type: "integer", Format: "int64"},
	}
}

func errContent() map[string]MediaType {
	return map[string]MediaType{
		"application/json": {Schema: Schema{Ref: "#/components/schemas/ErrorResponse"}},
	}
}

func validationContent() map[string]MediaType {
	return map[string]MediaType{
		"application/json": {Schema: Schema{Ref: "#/components/schemas/ValidationErrors"}},
	}
}

func buildSecuritySchemes() map[string]SecurityScheme {
	return map[string]SecurityScheme{
		"BearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
			Description:  "JWT token with a 'sub' claim identifying the operator. Required for admin routes only.",
		},
	}
}

func buildSchemas() map[string]Schema {
	return map[string]Schema{
		"ErrorResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"error": {Type: "string", Description: "Human-readable error message"},
			},
			Required: []string{"error"},
		},
		"ValidationErrors": {
			Type:        "object",
			Description: "Validation failures keyed by field name; cross-field failures appear under non_field_errors.",
			AdditionalProperties: &Schema{
				Type:  "array",
				Items: &Schema{Type: "string"},
			},
			Example: map[string]any{"user_id": []string{"a positive integer is required"}},
		},
		"MovieListResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"results": {
					Type:  "array",
					Items: &Schema{Ref: "#/components/schemas/Movie"},
				},
			},
			Required: []string{"results"},
		},
		"PlanetListResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"results": {
					Type:  "array",
					Items: &Schema{Ref: "#/components/schemas/Planet"},
				},
			},
			Required: []string{"results"},
		},
		"Movie": {
			Type:        "object",
			Description: "A movie row. For a favourited movie the title is the requesting user's custom title when one was set.",
			Properties: map[string]Schema{
				"id":           {Type: "integer", Format: "int64"},
				"title":        {Type: "string"},
				"release_date": {Type: "string", Format: "date-time"},
				"created":      {Type: "string", Format: "date-time"},
				"updated":      {Type: "string", Format: "date-time"},
				"url":          {Type: "string", Description: "Upstream record URL"},
				"is_favourite": {Type: "boolean", Description: "True when the requesting user favourited this movie"},
			},
			Required: []string{"id", "title", "release_date", "created", "updated", "url", "is_favourite"},
		},
		"Planet": {
			Type:        "object",
			Description: "A planet row. For a favourited planet the name is the requesting user's custom name when one was set.",
			Properties: map[string]Schema{
				"id":           {Type: "integer", Format: "int64"},
				"name":         {Type: "string"},
				"created":      {Type: "string", Format: "date-time"},
				"updated":      {Type: "string", Format: "date-time"},
				"url":          {Type: "string", Description: "Upstream record URL"},
				"is_favourite": {Type: "boolean", Description: "True when the requesting user favourited this planet"},
			},
			Required: []string{"id", "name", "created", "updated", "url", "is_favourite"},
		},
		"FavouriteMovieRequest": {
			Type: "object",
			Properties: map[string]Schema{
				"movie":        {Type: "integer", Format: "int64", Description: "ID of the movie to favourite"},
				"user_id":      {Type: "integer", Format: "int64", Description: "Positive user identifier"},
				"custom_title": {Type: "string", MaxLength: 250, Description: "Optional display name override"},
			},
			Required: []string{"movie", "user_id"},
		},
		"FavouritePlanetRequest": {
			Type: "object",
			Properties: map[string]Schema{
				"planet":      {Type: "integer", Format: "int64", Description: "ID of the planet to favourite"},
				"user_id":     {Type: "integer", Format: "int64", Description: "Positive user identifier"},
				"custom_name": {Type: "string", MaxLength: 250, Description: "Optional display name override"},
			},
			Required: []string{"planet", "user_id"},
		},
		"FavouriteMovieResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"data": {
					Type: "object",
					Properties: map[string]Schema{
						"id":           {Type: "integer", Format: "int64"},
						"user_id":      {Type: "integer", Format: "int64"},
						"movie":        {Type: "integer", Format: "int64"},
						"custom_title": {Type: "string", Nullable: true},
					},
					Required: []string{"id", "user_id", "movie"},
				},
			},
			Required: []string{"data"},
		},
		"FavouritePlanetResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"data": {
					Type: "object",
					Properties: map[string]Schema{
						"id":          {Type: "integer", Format: "int64"},
						"user_id":     {Type: "integer", Format: "int64"},
						"planet":      {Type: "integer", Format: "int64"},
						"custom_name": {Type: "string", Nullable: true},
					},
					Required: []string{"id", "user_id", "planet"},
				},
			},
			Required: []string{"data"},
		},
		"StatsResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"movies":            {Type: "integer", Format: "int64"},
				"planets":           {Type: "integer", Format: "int64"},
				"favourite_movies":  {Type: "integer", Format: "int64"},
				"favourite_planets": {Type: "integer", Format: "int64"},
			},
			Required: []string{"movies", "planets", "favourite_movies", "favourite_planets"},
		},
		"ImportResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"data": {
					Type: "object",
					Properties: map[string]Schema{
						"movies":  {Type: "integer", Description: "Movies inserted by this run"},
						"planets": {Type: "integer", Description: "Planets inserted by this run"},
					},
					Required: []string{"movies", "planets"},
				},
			},
			Required: []string{"data"},
		},
	}
}

// ---------------------------------------------------------------------------
// File writers
// ---------------------------------------------------------------------------

func writeJSON(spec OpenAPI, path string) error {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func writeYAML(spec OpenAPI, path string) error {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal YAML: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func main() {
	_, src, _, _ := runtime.Caller(0)
	outDir := filepath.Join(filepath.Join(filepath.Dir(src), "..", ".."), "api")

	if err := os.MkdirAll(outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create api/ directory: %v\n", err)
		os.Exit(1)
	}

	spec := buildSpec()

	jsonPath := filepath.Join(outDir, "swagger.json")
	if err := writeJSON(spec, jsonPath); err != nil {
		fmt.Fprintf(os.Stderr, "error writing JSON: %v\n", err)
		os.Exit(1)
	}

	yamlPath := filepath.Join(outDir, "swagger.yaml")
	if err := writeYAML(spec, yamlPath); err != nil {
		fmt.Fprintf(os.Stderr, "error writing YAML: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Swagger specs generated:\n  %s\n  %s\n", jsonPath, yamlPath)
}

package httpapi

import (
	"net/http"

	"github.com/Guilhem-Bonnet/tv-programm/internal/httpjson"
)

// handleOpenAPI renvoie une description OpenAPI minimale de l'API v1.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	jsonOK := func(schema map[string]any) map[string]any {
		return map[string]any{
			"description": "OK",
			"content": map[string]any{
				"application/json": map[string]any{"schema": schema},
			},
		}
	}
	ref := func(name string) map[string]any {
		return map[string]any{"$ref": "#/components/schemas/" + name}
	}
	jsonErr := map[string]any{
		"description": "Error",
		"content": map[string]any{
			"application/json": map[string]any{"schema": ref("Error")},
		},
	}
	queryParam := func(name, typ string, required bool, desc string) map[string]any {
		return map[string]any{
			"name":        name,
			"in":          "query",
			"required":    required,
			"description": desc,
			"schema":      map[string]any{"type": typ},
		}
	}
	str := map[string]any{"type": "string"}
	integer := map[string]any{"type": "integer"}

	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "TV Programm API",
			"version": "v1",
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Error": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error": str,
						"code": map[string]any{
							"type": "string",
							"enum": []any{"network_error", "not_found", "server_error", "unparsable_document", "schedule_structure", "detail_structure", "canceled", "invalid_params", "internal"},
						},
					},
					"required": []any{"error"},
				},
				"IconRef": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":        str,
						"spriteUrl": str,
						"x":         integer,
						"y":         integer,
						"size":      integer,
					},
				},
				"ScheduleEntry": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"channel":  str,
						"title":    str,
						"start":    map[string]any{"type": "string", "example": "20:15"},
						"ref":      map[string]any{"type": "string", "format": "uri"},
						"genre":    str,
						"division": str,
						"year":     integer,
						"icon":     ref("IconRef"),
					},
					"required": []any{"channel", "title", "start", "ref"},
				},
				"SkippedItem": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"index":  integer,
						"reason": str,
					},
				},
				"Schedule": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"source":       str,
						"day":          map[string]any{"type": "string", "format": "date"},
						"entries":      map[string]any{"type": "array", "items": ref("ScheduleEntry")},
						"skipped":      integer,
						"skippedItems": map[string]any{"type": "array", "items": ref("SkippedItem")},
					},
				},
				"ListingDetail": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"ref":         str,
						"title":       str,
						"channel":     str,
						"year":        map[string]any{"type": "integer", "nullable": true},
						"description": str,
						"genre":       str,
						"country":     str,
					},
				},
				"ExtractionReport": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":           str,
						"kind":         map[string]any{"type": "string", "enum": []any{"schedule", "detail"}},
						"source":       str,
						"target":       str,
						"entries":      integer,
						"skipped":      integer,
						"errorCode":    str,
						"errorMessage": str,
						"durationMs":   integer,
						"createdAt":    map[string]any{"type": "string", "format": "date-time"},
					},
				},
			},
		},
		"paths": map[string]any{
			"/api/v1/health":  map[string]any{"get": map[string]any{"responses": map[string]any{"200": jsonOK(map[string]any{"type": "object"})}}},
			"/api/v1/version": map[string]any{"get": map[string]any{"responses": map[string]any{"200": jsonOK(map[string]any{"type": "object"})}}},
			"/api/v1/schedule": map[string]any{
				"get": map[string]any{
					"summary":    "Grille du soir (aujourd'hui par défaut)",
					"parameters": []any{queryParam("date", "string", false, "YYYY-MM-DD")},
					"responses": map[string]any{
						"200": jsonOK(ref("Schedule")),
						"400": jsonErr,
						"404": jsonErr,
						"502": jsonErr,
					},
				},
			},
			"/api/v1/details": map[string]any{
				"get": map[string]any{
					"summary":    "Détail d'une diffusion, chargé à la demande",
					"parameters": []any{
						queryParam("ref", "string", true, "ref d'une entrée de la grille"),
						queryParam("channel", "string", false, "chaîne de l'entrée, si la page n'en indique pas"),
						queryParam("year", "integer", false, "année de l'entrée, si la page n'en indique pas"),
					},
					"responses": map[string]any{
						"200": jsonOK(ref("ListingDetail")),
						"400": jsonErr,
						"404": jsonErr,
						"502": jsonErr,
					},
				},
				"delete": map[string]any{
					"summary":    "Annule le chargement en cours pour ref",
					"parameters": []any{queryParam("ref", "string", true, "")},
					"responses": map[string]any{
						"200": jsonOK(map[string]any{"type": "object"}),
						"404": jsonErr,
					},
				},
			},
			"/api/v1/icons/{name}": map[string]any{
				"get": map[string]any{
					"parameters": []any{map[string]any{"name": "name", "in": "path", "required": true, "schema": str}},
					"responses": map[string]any{
						"200": jsonOK(ref("IconRef")),
						"404": jsonErr,
					},
				},
			},
			"/api/v1/reports": map[string]any{
				"get": map[string]any{
					"parameters": []any{
						queryParam("limit", "integer", false, ""),
						queryParam("kind", "string", false, "schedule|detail"),
					},
					"responses": map[string]any{
						"200": jsonOK(map[string]any{"type": "array", "items": ref("ExtractionReport")}),
						"400": jsonErr,
					},
				},
			},
			"/api/v1/reports/{id}": map[string]any{
				"get": map[string]any{
					"parameters": []any{map[string]any{"name": "id", "in": "path", "required": true, "schema": str}},
					"responses": map[string]any{
						"200": jsonOK(ref("ExtractionReport")),
						"404": jsonErr,
					},
				},
			},
			"/api/v1/events": map[string]any{
				"get": map[string]any{
					"summary": "Flux SSE (schedule.extracted, schedule.failed, detail.extracted, detail.failed)",
					"responses": map[string]any{
						"200": map[string]any{"description": "text/event-stream"},
					},
				},
			},
		},
	}

	httpjson.Write(w, http.StatusOK, spec)
}

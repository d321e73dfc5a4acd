// Package docs is generated by swag from the annotations in cmd/api.
// Regenerate with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "shuvoedward@gmail.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/search": {
            "get": {
                "description": "Fuzzy search over Arabic text and the translation in the requested language. All-digit queries list exact hadith numbers first, then partial matches. Russian queries typed on a Latin keyboard layout are retried in Cyrillic and carry metadata.correctedFrom.",
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Search hadiths",
                "parameters": [
                    {"type": "string", "description": "Search query", "name": "q", "in": "query", "required": true},
                    {"type": "string", "default": "en", "description": "Translation language code", "name": "language", "in": "query"},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Results per page", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Collection slug or name", "name": "collection", "in": "query"},
                    {"type": "string", "description": "Authenticity grade of the translation", "name": "grade", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Search results", "schema": {"$ref": "#/definitions/service.SearchPage"}},
                    "422": {"description": "Invalid query parameters"},
                    "503": {"description": "Search backend unavailable"}
                }
            }
        },
        "/search/suggestions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Suggest topics",
                "parameters": [
                    {"type": "string", "description": "Partial topic name", "name": "q", "in": "query", "required": true},
                    {"type": "string", "default": "en", "description": "Language code", "name": "language", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/search/spell": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Spelling hints",
                "parameters": [
                    {"type": "string", "description": "Possibly misspelled word", "name": "q", "in": "query", "required": true},
                    {"type": "string", "default": "en", "description": "Language code", "name": "language", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/hadiths": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Hadiths"],
                "summary": "List hadiths",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.HadithPage"}}}
            }
        },
        "/hadiths/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Hadiths"],
                "summary": "Get a hadith",
                "parameters": [
                    {"type": "integer", "description": "Hadith ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Hadith not found"}}
            }
        },
        "/random": {
            "get": {"produces": ["application/json"], "tags": ["Hadiths"], "summary": "Random hadith", "responses": {"200": {"description": "OK"}}}
        },
        "/daily": {
            "get": {"produces": ["application/json"], "tags": ["Hadiths"], "summary": "Hadith of the day", "responses": {"200": {"description": "OK"}}}
        },
        "/topics": {
            "get": {"produces": ["application/json"], "tags": ["Catalogue"], "summary": "List topics", "responses": {"200": {"description": "OK"}}}
        },
        "/collections": {
            "get": {"produces": ["application/json"], "tags": ["Catalogue"], "summary": "List collections", "responses": {"200": {"description": "OK"}}}
        },
        "/collections/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalogue"],
                "summary": "Get a collection",
                "parameters": [
                    {"type": "string", "description": "Collection slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Collection not found"}}
            }
        },
        "/healthcheck": {
            "get": {"produces": ["application/json"], "tags": ["System"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Degraded"}}}
        }
    },
    "definitions": {
        "data.Translation": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "hadithId": {"type": "integer"},
                "languageCode": {"type": "string"},
                "text": {"type": "string"},
                "narrator": {"type": "string"},
                "translator": {"type": "string"},
                "grade": {"type": "string"}
            }
        },
        "data.SearchResult": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "collection": {"type": "string"},
                "bookNumber": {"type": "integer"},
                "hadithNumber": {"type": "integer"},
                "arabicText": {"type": "string"},
                "arabicNarrator": {"type": "string"},
                "translation": {"$ref": "#/definitions/data.Translation"},
                "metadata": {"type": "object"},
                "relevance": {"type": "number"}
            }
        },
        "data.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "hasNext": {"type": "boolean"},
                "hasPrev": {"type": "boolean"}
            }
        },
        "service.PageMetadata": {
            "type": "object",
            "properties": {
                "correctedFrom": {"type": "string"}
            }
        },
        "service.SearchPage": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/data.SearchResult"}},
                "pagination": {"$ref": "#/definitions/data.Pagination"},
                "metadata": {"$ref": "#/definitions/service.PageMetadata"}
            }
        },
        "service.HadithPage": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/data.SearchResult"}},
                "pagination": {"$ref": "#/definitions/data.Pagination"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:4000",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Hadith Search API",
	Description:      "Fuzzy multilingual search over hadith collections with numeric reference lookup and keyboard layout correction.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

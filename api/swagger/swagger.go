package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Pool Admin API",
        "description": "Admin backend for government recruitment pools",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and current user"},
        {"name": "Pools", "description": "Pool CRUD and lifecycle actions"},
        {"name": "Pool editor", "description": "Section-scoped edit sessions"},
        {"name": "Candidates", "description": "Applicant screening"},
        {"name": "Exports", "description": "Background candidate exports"},
        {"name": "Taxonomy", "description": "Classifications, departments and skills"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pools": {
            "get": {
                "tags": ["Pools"],
                "summary": "List recruitment pools",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "classificationId", "in": "query", "type": "string"},
                    {"name": "departmentId", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Pools"],
                "summary": "Create a draft pool",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePoolRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pools/{id}": {
            "get": {
                "tags": ["Pools"],
                "summary": "Get pool detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Pools"],
                "summary": "Delete a draft pool",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Not a draft"}
                }
            }
        },
        "/pools/{id}/publish": {
            "post": {
                "tags": ["Pools"],
                "summary": "Publish a draft pool",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Incomplete required sections"}
                }
            }
        },
        "/pools/{id}/edit": {
            "get": {
                "tags": ["Pool editor"],
                "summary": "Get the edit page state",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pools/{id}/edit/sections/{section}": {
            "put": {
                "tags": ["Pool editor"],
                "summary": "Save one section's draft",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "section", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PoolSectionDraft"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Section closed or save in flight"},
                    "502": {"description": "Save rejected by the store"}
                }
            }
        },
        "/pools/{id}/candidates": {
            "get": {
                "tags": ["Candidates"],
                "summary": "List candidates for a pool",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pools/{id}/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Start a candidate export",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportCandidatesRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/taxonomy/classifications": {
            "get": {
                "tags": ["Taxonomy"],
                "summary": "List classifications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LocalizedString": {
            "type": "object",
            "properties": {
                "en": {"type": "string"},
                "fr": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreatePoolRequest": {
            "type": "object",
            "properties": {
                "name": {"$ref": "#/definitions/LocalizedString"},
                "classificationId": {"type": "string"},
                "departmentId": {"type": "string"}
            },
            "required": ["name"]
        },
        "PoolSectionDraft": {
            "type": "object",
            "properties": {
                "name": {"$ref": "#/definitions/LocalizedString"},
                "classificationId": {"type": "string"},
                "departmentId": {"type": "string"},
                "processNumber": {"type": "string"},
                "closingDate": {"type": "string"},
                "languageRequirement": {"type": "string"},
                "securityClearance": {"type": "string"},
                "location": {"$ref": "#/definitions/LocalizedString"},
                "yourImpact": {"$ref": "#/definitions/LocalizedString"},
                "keyTasks": {"$ref": "#/definitions/LocalizedString"},
                "whatToExpect": {"$ref": "#/definitions/LocalizedString"},
                "specialNote": {"$ref": "#/definitions/LocalizedString"},
                "essentialSkillIds": {"type": "array", "items": {"type": "string"}},
                "assetSkillIds": {"type": "array", "items": {"type": "string"}},
                "changeJustification": {"type": "string"}
            }
        },
        "ExportCandidatesRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["CSV", "PDF"]}
            },
            "required": ["format"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CertTrack API",
        "description": "Certification catalog and funding portal",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session management"},
        {"name": "Catalog", "description": "Certification catalog browsing"},
        {"name": "UserState", "description": "Favorites, applications and completions"},
        {"name": "Suggestions", "description": "User-submitted catalog suggestions"},
        {"name": "Exports", "description": "CSV and PDF downloads"},
        {"name": "Proofs", "description": "Completion proof documents"},
        {"name": "Admin", "description": "Spreadsheet sync, review queues and analytics"}
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
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user info",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/certifications": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List certifications",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "favorites_only", "in": "query", "type": "boolean"},
                    {"name": "domain", "in": "query", "type": "string"},
                    {"name": "language", "in": "query", "type": "string"},
                    {"name": "provider", "in": "query", "type": "string"},
                    {"name": "level", "in": "query", "type": "string"},
                    {"name": "quality", "in": "query", "type": "string"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "direction", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/certifications/filter-options": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Distinct filter values",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/certifications/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Certification detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/me/state": {
            "get": {
                "tags": ["UserState"],
                "summary": "Current user's catalog state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/me/favorites/{id}": {
            "put": {
                "tags": ["UserState"],
                "summary": "Mark favorite",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "No content"}}
            },
            "delete": {
                "tags": ["UserState"],
                "summary": "Remove favorite",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "No content"}}
            }
        },
        "/me/applications": {
            "get": {
                "tags": ["UserState"],
                "summary": "List funding applications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["UserState"],
                "summary": "Submit funding application",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Pending application exists"}
                }
            }
        },
        "/me/completions": {
            "get": {
                "tags": ["UserState"],
                "summary": "List completed certifications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["UserState"],
                "summary": "Record catalog completion",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Already completed"}
                }
            }
        },
        "/me/completions/external": {
            "post": {
                "tags": ["UserState"],
                "summary": "Record external completion",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/suggestions": {
            "get": {
                "tags": ["Suggestions"],
                "summary": "List own suggestions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Suggestions"],
                "summary": "Suggest a certification",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/exports/catalog": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export filtered catalog",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/exports/completions": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export completed certifications",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/proofs/download": {
            "get": {
                "tags": ["Proofs"],
                "summary": "Download proof by signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        },
        "/admin/sync": {
            "post": {
                "tags": ["Admin"],
                "summary": "Import catalog from Google Sheets",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SyncRequest"}}
                ],
                "responses": {
                    "200": {"description": "Import summary"},
                    "401": {"description": "Sheets authorization required"}
                }
            }
        },
        "/admin/applications": {
            "get": {
                "tags": ["Admin"],
                "summary": "List applications by status",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["pending", "approved", "rejected"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/applications/{id}/review": {
            "post": {
                "tags": ["Admin"],
                "summary": "Transition an application",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Transition not allowed"}
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Analytics dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/settings": {
            "get": {
                "tags": ["Admin"],
                "summary": "List settings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Write a setting",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SyncRequest": {
            "type": "object",
            "required": ["access_token"],
            "properties": {
                "spreadsheet_id": {"type": "string"},
                "tab": {"type": "string"},
                "access_token": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
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

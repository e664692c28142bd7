package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Event Check-in API",
        "description": "Self-service event check-in kiosk backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Checkin", "description": "Attendee-facing kiosk flow"},
        {"name": "Sessions", "description": "Admin session management"},
        {"name": "Projection", "description": "Shared-screen live feed"},
        {"name": "Roster", "description": "Participant roster"},
        {"name": "Logbook", "description": "Attendance log administration"},
        {"name": "Exports", "description": "Asynchronous log exports"},
        {"name": "Settings", "description": "Kiosk write policy"},
        {"name": "Authentication", "description": "Admin login"}
    ],
    "paths": {
        "/checkin": {
            "post": {
                "tags": ["Checkin"],
                "summary": "Record a check-in",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckInRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Verification failed"},
                    "404": {"description": "Unknown code"}
                }
            }
        },
        "/checkin/sessions/{code}": {
            "get": {
                "tags": ["Checkin"],
                "summary": "Resolve a session code",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown code"}
                }
            }
        },
        "/roster/names": {
            "get": {
                "tags": ["Roster"],
                "summary": "List roster names",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projection/{id}": {
            "get": {
                "tags": ["Projection"],
                "summary": "Projection feed for a session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Admin login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid password"}
                }
            }
        },
        "/admin/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List sessions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Create session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/sessions/{id}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Get session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Sessions"],
                "summary": "Delete session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/admin/sessions/{id}/deactivate": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Deactivate session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deactivated"}
                }
            }
        },
        "/admin/settings": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get kiosk settings",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Toggle high-traffic mode",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/logbook": {
            "get": {
                "tags": ["Logbook"],
                "summary": "List attendance records",
                "parameters": [
                    {"name": "session", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/logbook/download": {
            "get": {
                "tags": ["Logbook"],
                "summary": "Download the attendance log as CSV",
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/admin/logbook/reconcile": {
            "post": {
                "tags": ["Logbook"],
                "summary": "Reconcile local log with the remote mirror",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/roster": {
            "get": {
                "tags": ["Roster"],
                "summary": "List roster entries",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/roster/upload": {
            "post": {
                "tags": ["Roster"],
                "summary": "Upload roster CSV",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Create export job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        },
        "/admin/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Get export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download export by signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "CheckInRequest": {
            "type": "object",
            "required": ["code", "name"],
            "properties": {
                "code": {"type": "string", "example": "123456"},
                "name": {"type": "string"},
                "proof": {"type": "string", "description": "Last digits of the attendee ID"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "CreateSessionRequest": {
            "type": "object",
            "required": ["name", "date", "start", "duration"],
            "properties": {
                "name": {"type": "string"},
                "date": {"type": "string", "example": "2025-03-14"},
                "start": {"type": "string", "example": "09:00"},
                "duration": {"type": "string", "example": "15m"}
            }
        },
        "CreateExportRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "session": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "password": {"type": "string"}
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

package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SkillSwap Session API",
        "description": "Peer skill-exchange session engine",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Sessions", "description": "Session request lifecycle and scheduling"},
        {"name": "Availability", "description": "Availability slot calendar"},
        {"name": "Reviews", "description": "Post-session feedback"},
        {"name": "Notifications", "description": "Notification inbox"},
        {"name": "Skills", "description": "Skill catalog (read only)"},
        {"name": "Admin", "description": "Moderation surface"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Request a session on a skill",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate active request"}
                }
            }
        },
        "/admin/sessions": {
            "get": {
                "tags": ["Admin"],
                "summary": "List all session requests for moderation (admin only)",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "schedule_status", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Admin only"}
                }
            }
        },
        "/sessions/mine": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List the caller's session requests, made and received",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/respond": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Accept, decline, cancel, or complete a session request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RespondRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Wrong actor"},
                    "409": {"description": "Invalid transition"}
                }
            }
        },
        "/sessions/{id}/schedule": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Propose, confirm, or clear a session time",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Wrong actor"},
                    "409": {"description": "Invalid transition or slot conflict"}
                }
            }
        },
        "/sessions/{id}/availability": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List the provider's proposable slots for a session request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/reviews": {
            "get": {
                "tags": ["Reviews"],
                "summary": "List a session's reviews",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "List the caller's active availability slots",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Availability"],
                "summary": "Publish an availability slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Overlapping slot"}
                }
            }
        },
        "/availability/{id}": {
            "delete": {
                "tags": ["Availability"],
                "summary": "Remove one of the caller's availability slots",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/reviews": {
            "post": {
                "tags": ["Reviews"],
                "summary": "Leave feedback on a completed session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReviewRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate review"}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List the caller's newest notifications",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/unread-count": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Count the caller's unread notifications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Mark one notification read",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/notifications/read-all": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Mark all notifications read",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/skills": {
            "get": {
                "tags": ["Skills"],
                "summary": "List skills visible to the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/skills/{id}": {
            "get": {
                "tags": ["Skills"],
                "summary": "Fetch a single skill",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateSessionRequest": {
            "type": "object",
            "properties": {
                "skill_id": {"type": "string"},
                "message": {"type": "string"}
            },
            "required": ["skill_id"]
        },
        "RespondRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["accept", "decline", "cancel", "complete"]}
            },
            "required": ["action"]
        },
        "ScheduleRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["propose", "confirm", "clear"]},
                "slot_id": {"type": "string"},
                "scheduled_start": {"type": "string", "format": "date-time"},
                "scheduled_end": {"type": "string", "format": "date-time"},
                "timezone": {"type": "string"}
            },
            "required": ["action"]
        },
        "CreateSlotRequest": {
            "type": "object",
            "properties": {
                "start_time": {"type": "string", "format": "date-time"},
                "end_time": {"type": "string", "format": "date-time"},
                "timezone": {"type": "string"}
            },
            "required": ["start_time", "end_time"]
        },
        "CreateReviewRequest": {
            "type": "object",
            "properties": {
                "session_request_id": {"type": "string"},
                "rating": {"type": "integer", "minimum": 1, "maximum": 5},
                "comment": {"type": "string"}
            },
            "required": ["session_request_id", "rating"]
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

package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ATP Planner API",
        "description": "School calendar exclusion and JP hour distribution engine",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Reference", "description": "Subjects, phases and JP standards"},
        {"name": "Calendar", "description": "Exception categories and month grid"},
        {"name": "Planner", "description": "Effective dates, hour allocation and analytics"},
        {"name": "Curriculum", "description": "Generated objectives and pathways"},
        {"name": "History", "description": "Per-session activity log"},
        {"name": "Exports", "description": "Asynchronous document export"}
    ],
    "parameters": {
        "SessionHeader": {"name": "X-Session-ID", "in": "header", "type": "string", "description": "Session id; generated when absent"}
    },
    "paths": {
        "/reference/subjects": {
            "get": {
                "tags": ["Reference"],
                "summary": "List subjects",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reference/phases": {
            "get": {
                "tags": ["Reference"],
                "summary": "List phases and their classes",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reference/standards": {
            "get": {
                "tags": ["Reference"],
                "summary": "Annual JP standards per subject and class",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reference/standards/resolve": {
            "get": {
                "tags": ["Reference"],
                "summary": "Resolve the annual target of a subject and class",
                "parameters": [
                    {"name": "subject", "in": "query", "required": true, "type": "string"},
                    {"name": "class", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reference/reload": {
            "post": {
                "tags": ["Reference"],
                "summary": "Reload reference data from its source",
                "responses": {
                    "204": {"description": "Reloaded"},
                    "422": {"description": "Invalid reference data", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/categories": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List exception categories with variants",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/calendar/exceptions": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List exceptions active for a configuration",
                "parameters": [
                    {"name": "config[category]", "in": "query", "type": "string", "description": "Selected variant per category"},
                    {"name": "apply_defaults", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Configuration gap", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/month": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Day grid of one month",
                "parameters": [
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "month", "in": "query", "required": true, "type": "integer"},
                    {"name": "days", "in": "query", "type": "string", "description": "Comma separated weekday names"},
                    {"name": "apply_defaults", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/effective-dates": {
            "post": {
                "tags": ["Planner"],
                "summary": "Enumerate effective teaching dates",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Configuration gap", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/allocation": {
            "post": {
                "tags": ["Planner"],
                "summary": "Distribute the annual JP target over effective dates",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AllocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Configuration gap", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/analysis": {
            "post": {
                "tags": ["Planner"],
                "summary": "Calendar analytics for a subject and class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AllocationRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/curriculum/objectives": {
            "post": {
                "tags": ["Curriculum"],
                "summary": "Generate learning outcomes and objectives",
                "parameters": [
                    {"$ref": "#/parameters/SessionHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ObjectivesRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Generator failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Generation disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/curriculum/pathway": {
            "post": {
                "tags": ["Curriculum"],
                "summary": "Generate the pathway of one class bound to its hour plan",
                "parameters": [
                    {"$ref": "#/parameters/SessionHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/curriculum/pathway/phase": {
            "post": {
                "tags": ["Curriculum"],
                "summary": "Generate pathways for every class of a phase",
                "parameters": [
                    {"$ref": "#/parameters/SessionHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/history": {
            "get": {
                "tags": ["History"],
                "summary": "List the activity of the session, newest first",
                "parameters": [{"$ref": "#/parameters/SessionHeader"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/history/{id}": {
            "get": {
                "tags": ["History"],
                "summary": "Get one history entry with its snapshot",
                "parameters": [
                    {"$ref": "#/parameters/SessionHeader"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports": {
            "get": {
                "tags": ["Exports"],
                "summary": "List export jobs of the session",
                "parameters": [{"$ref": "#/parameters/SessionHeader"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a document export of a history entry",
                "parameters": [
                    {"$ref": "#/parameters/SessionHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"$ref": "#/parameters/SessionHeader"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an export through its signed token",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "summary": "In-process counters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "ScheduleInput": {
            "type": "object",
            "properties": {
                "days": {"type": "array", "items": {"type": "string"}},
                "config": {"type": "object", "additionalProperties": {"type": "string"}},
                "apply_defaults": {"type": "boolean"}
            }
        },
        "AllocationRequest": {
            "type": "object",
            "required": ["subject", "class_name"],
            "properties": {
                "subject": {"type": "string"},
                "class_name": {"type": "string"},
                "days": {"type": "array", "items": {"type": "string"}},
                "config": {"type": "object", "additionalProperties": {"type": "string"}},
                "apply_defaults": {"type": "boolean"},
                "target_override": {"type": "integer"},
                "auto_expand": {"type": "boolean"}
            }
        },
        "ObjectivesRequest": {
            "type": "object",
            "required": ["subject", "phase_id"],
            "properties": {
                "subject": {"type": "string"},
                "phase_id": {"type": "string"},
                "paper_size": {"type": "string"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "required": ["history_id", "format"],
            "properties": {
                "history_id": {"type": "string"},
                "class_name": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf", "xlsx"]},
                "paper_size": {"type": "string", "enum": ["A4", "Letter", "F4"]}
            }
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
                "status": {"type": "integer"},
                "details": {"type": "object"},
                "retryable": {"type": "boolean"}
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

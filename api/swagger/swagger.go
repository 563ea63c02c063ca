package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Edu Console Scheduling API",
        "description": "Draft, relocate and apply class schedules; read applied weeks.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Scheduler",
            "description": "Draft workspaces, relocation, apply and weekly reads"
        },
        {
            "name": "Observability",
            "description": "Metrics and health"
        }
    ],
    "paths": {
        "/schedules/time-slots": {
            "get": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "List the time slot catalog",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Generate a draft through the generator service",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Generator failed"
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/GenerateDraftRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/manual": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Open a manual draft",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/ManualDraftRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}": {
            "get": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Get a draft with its conflict report",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Discard a draft",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/regenerate": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Re-run generation for a generated draft",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/sessions": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Add a session",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Slot out of range"
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SessionInput"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/sessions/{sessionId}": {
            "patch": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Edit a session",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "sessionId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateSessionRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Request deletion of a session",
                "responses": {
                    "202": {
                        "description": "Pending confirmation",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "sessionId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/confirmations/{token}": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Approve or reject a pending confirmation",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "token",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ConfirmRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/drag/lift": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Lift a session",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LiftRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/drag/hover": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Hover a cell",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CellRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/drag/drop": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Drop on a cell",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "202": {
                        "description": "Pending confirmation",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Slot out of range"
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CellRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/drag/cancel": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Cancel the relocation",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/conflicts": {
            "get": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Conflict and blackout report",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/week/prev": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Previous week",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/week/next": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Next week",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/calendar": {
            "get": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Project the visible week",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "view",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "time",
                            "room",
                            "list"
                        ]
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/apply": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Persist the draft",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/export": {
            "get": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Download the draft",
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf",
                            "xlsx",
                            "ics"
                        ]
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/drafts/{id}/exports": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Publish a draft export",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf",
                            "xlsx",
                            "ics"
                        ]
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/exports/{token}": {
            "get": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Download a published export",
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "403": {
                        "description": "Invalid link"
                    },
                    "410": {
                        "description": "Expired link"
                    }
                },
                "parameters": [
                    {
                        "name": "token",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/schedules/blackouts/check": {
            "post": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Check a candidate placement",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/BlackoutCheckRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/weekly": {
            "get": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "List applied sessions",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "start_date",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "end_date",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "class_id",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "teacher_id",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "room_id",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/weekly/calendar": {
            "get": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Project applied sessions",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "start_date",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "end_date",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "class_id",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "teacher_id",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "room_id",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "view",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "time",
                            "room",
                            "list"
                        ]
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/weekly/export": {
            "get": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Download applied sessions",
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "start_date",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "end_date",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "class_id",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "teacher_id",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "room_id",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/applications": {
            "get": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "List schedule applications",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schedules/applications/{id}": {
            "get": {
                "tags": [
                    "Scheduler"
                ],
                "summary": "Get a schedule application",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Aggregated process metrics",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "SessionInput": {
            "type": "object",
            "required": [
                "classId",
                "sessionDate",
                "timeSlots"
            ],
            "properties": {
                "classId": {
                    "type": "string"
                },
                "className": {
                    "type": "string"
                },
                "sessionDate": {
                    "type": "string",
                    "format": "date"
                },
                "timeSlots": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "teacherId": {
                    "type": "string"
                },
                "teacherName": {
                    "type": "string"
                },
                "roomId": {
                    "type": "string"
                },
                "roomName": {
                    "type": "string"
                },
                "lessonTopic": {
                    "type": "string"
                }
            }
        },
        "GenerateDraftRequest": {
            "type": "object",
            "required": [
                "startDate",
                "endDate",
                "classIds"
            ],
            "properties": {
                "startDate": {
                    "type": "string",
                    "format": "date"
                },
                "endDate": {
                    "type": "string",
                    "format": "date"
                },
                "classIds": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "maxSlotsPerSession": {
                    "type": "integer"
                },
                "preferMorning": {
                    "type": "boolean"
                },
                "classConflict": {
                    "type": "object",
                    "description": "entity id -> date (YYYY-MM-DD) -> blocked slot numbers",
                    "additionalProperties": {
                        "type": "object",
                        "additionalProperties": {
                            "type": "array",
                            "items": {
                                "type": "integer"
                            }
                        }
                    }
                },
                "teacherConflict": {
                    "type": "object",
                    "description": "entity id -> date (YYYY-MM-DD) -> blocked slot numbers",
                    "additionalProperties": {
                        "type": "object",
                        "additionalProperties": {
                            "type": "array",
                            "items": {
                                "type": "integer"
                            }
                        }
                    }
                },
                "teachers": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "rooms": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                }
            }
        },
        "ManualDraftRequest": {
            "type": "object",
            "properties": {
                "startDate": {
                    "type": "string",
                    "format": "date"
                },
                "endDate": {
                    "type": "string",
                    "format": "date"
                },
                "classIds": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "sessions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/SessionInput"
                    }
                },
                "classConflict": {
                    "type": "object",
                    "description": "entity id -> date (YYYY-MM-DD) -> blocked slot numbers",
                    "additionalProperties": {
                        "type": "object",
                        "additionalProperties": {
                            "type": "array",
                            "items": {
                                "type": "integer"
                            }
                        }
                    }
                },
                "teacherConflict": {
                    "type": "object",
                    "description": "entity id -> date (YYYY-MM-DD) -> blocked slot numbers",
                    "additionalProperties": {
                        "type": "object",
                        "additionalProperties": {
                            "type": "array",
                            "items": {
                                "type": "integer"
                            }
                        }
                    }
                }
            }
        },
        "UpdateSessionRequest": {
            "type": "object",
            "properties": {
                "teacherId": {
                    "type": "string"
                },
                "roomId": {
                    "type": "string"
                },
                "lessonTopic": {
                    "type": "string"
                }
            }
        },
        "ConfirmRequest": {
            "type": "object",
            "properties": {
                "approve": {
                    "type": "boolean"
                }
            }
        },
        "LiftRequest": {
            "type": "object",
            "required": [
                "sessionId"
            ],
            "properties": {
                "sessionId": {
                    "type": "string"
                }
            }
        },
        "CellRequest": {
            "type": "object",
            "required": [
                "sessionDate",
                "slot"
            ],
            "properties": {
                "sessionDate": {
                    "type": "string",
                    "format": "date"
                },
                "slot": {
                    "type": "integer"
                }
            }
        },
        "BlackoutCheckRequest": {
            "type": "object",
            "required": [
                "sessionDate",
                "slot"
            ],
            "properties": {
                "draftId": {
                    "type": "string"
                },
                "classId": {
                    "type": "string"
                },
                "teacherId": {
                    "type": "string"
                },
                "roomId": {
                    "type": "string"
                },
                "sessionDate": {
                    "type": "string",
                    "format": "date"
                },
                "slot": {
                    "type": "integer"
                },
                "classConflict": {
                    "type": "object",
                    "description": "entity id -> date (YYYY-MM-DD) -> blocked slot numbers",
                    "additionalProperties": {
                        "type": "object",
                        "additionalProperties": {
                            "type": "array",
                            "items": {
                                "type": "integer"
                            }
                        }
                    }
                },
                "teacherConflict": {
                    "type": "object",
                    "description": "entity id -> date (YYYY-MM-DD) -> blocked slot numbers",
                    "additionalProperties": {
                        "type": "object",
                        "additionalProperties": {
                            "type": "array",
                            "items": {
                                "type": "integer"
                            }
                        }
                    }
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
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

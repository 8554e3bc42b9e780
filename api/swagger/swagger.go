package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Coaching Center Results API",
        "description": "Monthly result aggregation and grading for coaching center batches",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Login and account provisioning"},
        {"name": "Batches", "description": "Batches and enrolled students"},
        {"name": "Exams", "description": "Monthly exams and submitted marks"},
        {"name": "Attendance", "description": "Daily attendance"},
        {"name": "Calendar", "description": "Holidays and working days"},
        {"name": "Results", "description": "Monthly result generation, bonus and export"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users": {
            "post": {
                "tags": ["Auth"],
                "summary": "Create user",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batches": {
            "get": {
                "tags": ["Batches"],
                "summary": "List batches",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Batches"],
                "summary": "Create batch",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBatchRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batches/{id}/students": {
            "get": {
                "tags": ["Batches"],
                "summary": "List active students of a batch",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Batches"],
                "summary": "Enroll student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams": {
            "post": {
                "tags": ["Exams"],
                "summary": "Create exam",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExamRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/{id}/scores": {
            "post": {
                "tags": ["Exams"],
                "summary": "Submit exam marks",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitScoresRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark attendance",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/holidays": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List holidays",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Calendar"],
                "summary": "Create holiday",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateHolidayRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/working-days": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Working days in a range",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/bonus": {
            "put": {
                "tags": ["Results"],
                "summary": "Set monthly bonus",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetBonusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid percentage", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/generate": {
            "post": {
                "tags": ["Results"],
                "summary": "Generate monthly results",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateMonthlyResultsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Generation already running", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Batch has no students", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/generate/async": {
            "post": {
                "tags": ["Results"],
                "summary": "Queue monthly result generation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateMonthlyResultsRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Generation already queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/{batchId}/{year}/{month}": {
            "get": {
                "tags": ["Results"],
                "summary": "List monthly results",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "batchId", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not generated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/{batchId}/{year}/{month}/export": {
            "get": {
                "tags": ["Results"],
                "summary": "Export monthly results",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "batchId", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}}
                }
            }
        },
        "/students/{id}/results": {
            "get": {
                "tags": ["Results"],
                "summary": "Result history of a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
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
        "CreateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "TEACHER", "STUDENT"]},
                "student_id": {"type": "string"}
            },
            "required": ["email", "password", "full_name", "role"]
        },
        "CreateBatchRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "class_level": {"type": "integer"}
            },
            "required": ["name", "class_level"]
        },
        "EnrollStudentRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "phone": {"type": "string"}
            },
            "required": ["full_name"]
        },
        "CreateExamRequest": {
            "type": "object",
            "properties": {
                "batch_id": {"type": "string"},
                "title": {"type": "string"},
                "exam_date": {"type": "string", "format": "date"},
                "total_marks": {"type": "number"}
            },
            "required": ["batch_id", "title", "exam_date", "total_marks"]
        },
        "ScoreEntry": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "marks_obtained": {"type": "number"}
            },
            "required": ["student_id"]
        },
        "SubmitScoresRequest": {
            "type": "object",
            "properties": {
                "scores": {"type": "array", "items": {"$ref": "#/definitions/ScoreEntry"}}
            },
            "required": ["scores"]
        },
        "AttendanceEntry": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "present": {"type": "boolean"}
            },
            "required": ["student_id"]
        },
        "MarkAttendanceRequest": {
            "type": "object",
            "properties": {
                "batch_id": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/AttendanceEntry"}}
            },
            "required": ["batch_id", "date", "entries"]
        },
        "CreateHolidayRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "title": {"type": "string"}
            },
            "required": ["date", "title"]
        },
        "SetBonusRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "batch_id": {"type": "string"},
                "year": {"type": "integer"},
                "month": {"type": "integer"},
                "bonus_percent": {"type": "number"}
            },
            "required": ["student_id", "batch_id", "year", "month"]
        },
        "GenerateMonthlyResultsRequest": {
            "type": "object",
            "properties": {
                "batch_id": {"type": "string"},
                "year": {"type": "integer"},
                "month": {"type": "integer"}
            },
            "required": ["batch_id", "year", "month"]
        },
        "MonthlyResult": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "student_name": {"type": "string"},
                "batch_id": {"type": "string"},
                "year": {"type": "integer"},
                "month": {"type": "integer"},
                "exam_component_percent": {"type": "number"},
                "attendance_component_percent": {"type": "number"},
                "bonus_percent": {"type": "number"},
                "final_percent": {"type": "number"},
                "gpa": {"type": "number"},
                "letter_grade": {"type": "string"},
                "grade_description": {"type": "string"},
                "class_rank": {"type": "integer"},
                "exams_counted": {"type": "integer"},
                "days_present": {"type": "integer"},
                "working_days": {"type": "integer"}
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

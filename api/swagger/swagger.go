package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutoring Center API",
        "description": "Administrative backend for the tutoring center: enrollments, attendance, licenses, make-up classes, billing and PagoFacil QR payments",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Inscripciones", "description": "Student enrollments"},
        {"name": "Asistencias", "description": "Attendance records"},
        {"name": "Licencias", "description": "Absence license requests"},
        {"name": "Reprogramaciones", "description": "Make-up classes"},
        {"name": "Ventas", "description": "Billing"},
        {"name": "Pagos", "description": "Payments and QR gateway"},
        {"name": "Horarios", "description": "Tutor availability"},
        {"name": "Informes", "description": "Class reports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate an owner, tutor or student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current authenticated principal",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inscripciones": {
            "get": {
                "tags": ["Inscripciones"],
                "summary": "List enrollments",
                "parameters": [
                    {"name": "alumnoId", "in": "query", "type": "string"},
                    {"name": "tutorId", "in": "query", "type": "string"},
                    {"name": "servicioId", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Inscripciones"],
                "summary": "Enroll a student with a tutor for a service",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Active enrollment already exists"}
                }
            }
        },
        "/inscripciones/{id}": {
            "get": {
                "tags": ["Inscripciones"],
                "summary": "Get enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inscripciones/{id}/retirar": {
            "put": {
                "tags": ["Inscripciones"],
                "summary": "Withdraw enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Enrollment is not active"}
                }
            }
        },
        "/inscripciones/{id}/finalizar": {
            "put": {
                "tags": ["Inscripciones"],
                "summary": "Finish enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Enrollment is not active"}
                }
            }
        },
        "/asistencias": {
            "get": {
                "tags": ["Asistencias"],
                "summary": "List attendance records",
                "parameters": [
                    {"name": "inscripcionId", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Asistencias"],
                "summary": "Record attendance",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Attendance already recorded for that date"}
                }
            }
        },
        "/asistencias/{id}": {
            "get": {
                "tags": ["Asistencias"],
                "summary": "Get attendance record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Asistencias"],
                "summary": "Update attendance record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAttendanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Blocked by a non-rejected license"}
                }
            },
            "delete": {
                "tags": ["Asistencias"],
                "summary": "Delete attendance record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "A license references this record"}
                }
            }
        },
        "/licencias": {
            "get": {
                "tags": ["Licencias"],
                "summary": "List licenses",
                "parameters": [
                    {"name": "asistenciaId", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Licencias"],
                "summary": "Request a license for an absence",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RequestLicenseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Attendance is not an absence"}
                }
            }
        },
        "/licencias/{id}": {
            "get": {
                "tags": ["Licencias"],
                "summary": "Get license",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Licencias"],
                "summary": "Delete license",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "A make-up class references this license"}
                }
            }
        },
        "/licencias/{id}/aprobar": {
            "put": {
                "tags": ["Licencias"],
                "summary": "Approve a pending license",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "License already reviewed"}
                }
            }
        },
        "/licencias/{id}/rechazar": {
            "put": {
                "tags": ["Licencias"],
                "summary": "Reject a pending license",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "License already reviewed"}
                }
            }
        },
        "/reprogramaciones": {
            "get": {
                "tags": ["Reprogramaciones"],
                "summary": "List make-up classes",
                "parameters": [
                    {"name": "licenciaId", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Reprogramaciones"],
                "summary": "Schedule a make-up class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleMakeupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "License is not approved"}
                }
            }
        },
        "/reprogramaciones/{id}/realizar": {
            "put": {
                "tags": ["Reprogramaciones"],
                "summary": "Mark a make-up class as done",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Not in the scheduled state"}
                }
            }
        },
        "/reprogramaciones/{id}/cancelar": {
            "put": {
                "tags": ["Reprogramaciones"],
                "summary": "Cancel a scheduled make-up class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Not in the scheduled state"}
                }
            }
        },
        "/ventas": {
            "get": {
                "tags": ["Ventas"],
                "summary": "List sales",
                "parameters": [
                    {"name": "inscripcionId", "in": "query", "type": "string"},
                    {"name": "alumnoId", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "periodo", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Ventas"],
                "summary": "Create a sale",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSaleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Enrollment is not active"}
                }
            }
        },
        "/ventas/resumen": {
            "get": {
                "tags": ["Ventas"],
                "summary": "Sales aggregated by status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ventas/export": {
            "get": {
                "tags": ["Ventas"],
                "summary": "Download filtered sales as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV document"}
                }
            }
        },
        "/pagos": {
            "get": {
                "tags": ["Pagos"],
                "summary": "List payments",
                "parameters": [
                    {"name": "ventaId", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Pagos"],
                "summary": "Record a manual payment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordPaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Sale already settled"}
                }
            }
        },
        "/pagos/qr": {
            "post": {
                "tags": ["Pagos"],
                "summary": "Request a PagoFacil QR for a sale",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/InitiateQRPaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Gateway rejected the request"}
                }
            }
        },
        "/pagos/callback": {
            "post": {
                "tags": ["Pagos"],
                "summary": "PagoFacil settlement webhook",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GatewayCallbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "Always acknowledged", "schema": {"$ref": "#/definitions/GatewayCallbackAck"}}
                }
            }
        },
        "/pagos/{id}/estado": {
            "get": {
                "tags": ["Pagos"],
                "summary": "Reconcile a pending QR payment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Payment has no gateway transaction"}
                }
            }
        },
        "/pagos/{id}/recibo": {
            "get": {
                "tags": ["Pagos"],
                "summary": "Download PDF receipt",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"},
                    "412": {"description": "Payment is not settled"}
                }
            }
        },
        "/horarios": {
            "get": {
                "tags": ["Horarios"],
                "summary": "List availability slots",
                "parameters": [
                    {"name": "tutorId", "in": "query", "type": "string"},
                    {"name": "dia", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Horarios"],
                "summary": "Create an availability slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/informes": {
            "get": {
                "tags": ["Informes"],
                "summary": "List class reports",
                "parameters": [
                    {"name": "inscripcionId", "in": "query", "type": "string"},
                    {"name": "tutorId", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Informes"],
                "summary": "Record a class report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Report already exists for that date"}
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
        "EnrollStudentRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "tutor_id": {"type": "string"},
                "service_id": {"type": "string"},
                "start_date": {"type": "string"}
            },
            "required": ["student_id", "tutor_id", "service_id"]
        },
        "RecordAttendanceRequest": {
            "type": "object",
            "properties": {
                "enrollment_id": {"type": "string"},
                "date": {"type": "string"},
                "status": {"type": "string", "enum": ["presente", "ausente", "tardanza", "justificado", "recuperada"]},
                "notes": {"type": "string"}
            },
            "required": ["enrollment_id", "date", "status"]
        },
        "UpdateAttendanceRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "status": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "RequestLicenseRequest": {
            "type": "object",
            "properties": {
                "attendance_id": {"type": "string"},
                "reason": {"type": "string"}
            },
            "required": ["attendance_id", "reason"]
        },
        "ScheduleMakeupRequest": {
            "type": "object",
            "properties": {
                "license_id": {"type": "string"},
                "original_date": {"type": "string"},
                "new_date": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["license_id", "new_date"]
        },
        "CreateSaleRequest": {
            "type": "object",
            "properties": {
                "enrollment_id": {"type": "string"},
                "sale_type": {"type": "string"},
                "total_amount": {"type": "number"},
                "billing_period": {"type": "string"},
                "sale_date": {"type": "string"},
                "due_date": {"type": "string"}
            },
            "required": ["enrollment_id", "sale_type", "total_amount", "billing_period"]
        },
        "RecordPaymentRequest": {
            "type": "object",
            "properties": {
                "sale_id": {"type": "string"},
                "amount": {"type": "number"},
                "method": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["sale_id", "amount", "method"]
        },
        "InitiateQRPaymentRequest": {
            "type": "object",
            "properties": {
                "sale_id": {"type": "string"},
                "amount": {"type": "number"}
            },
            "required": ["sale_id", "amount"]
        },
        "GatewayCallbackRequest": {
            "type": "object",
            "properties": {
                "PedidoID": {"type": "string"},
                "Fecha": {"type": "string"},
                "Hora": {"type": "string"},
                "MetodoPago": {"type": "string"},
                "Estado": {"type": "integer"}
            },
            "required": ["PedidoID"]
        },
        "GatewayCallbackAck": {
            "type": "object",
            "properties": {
                "error": {"type": "integer"},
                "status": {"type": "integer"},
                "message": {"type": "string"},
                "values": {"type": "boolean"}
            }
        },
        "CreateScheduleRequest": {
            "type": "object",
            "properties": {
                "tutor_id": {"type": "string"},
                "day_of_week": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
            },
            "required": ["tutor_id", "day_of_week", "start_time", "end_time"]
        },
        "CreateClassReportRequest": {
            "type": "object",
            "properties": {
                "enrollment_id": {"type": "string"},
                "date": {"type": "string"},
                "topics_covered": {"type": "string"},
                "assigned_homework": {"type": "string"},
                "grade": {"type": "number"},
                "summary": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["enrollment_id", "date", "topics_covered"]
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

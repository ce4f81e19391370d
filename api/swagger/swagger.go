package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "hospshop Procurement API",
        "description": "Quotation workflow for medical equipment procurement",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and account management"},
        {"name": "Quotations", "description": "Quotation request lifecycle"},
        {"name": "Proposals", "description": "Supplier proposal collection"},
        {"name": "Awards", "description": "Comparison and award decisions"},
        {"name": "Contracts", "description": "Supply contract generation"},
        {"name": "Suppliers", "description": "Supplier registry"},
        {"name": "Payments", "description": "Payments and installments"},
        {"name": "Deliveries", "description": "Delivery order tracking"},
        {"name": "Reports", "description": "CSV and PDF exports"},
        {"name": "Dashboard", "description": "Operations panel"}
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
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change password",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/quotations": {
            "get": {
                "tags": ["Quotations"],
                "summary": "List quotation requests",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["open", "closed"]},
                    {"name": "tender_reference", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Quotations"],
                "summary": "Open quotation request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateQuotationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/quotations/stats": {
            "get": {
                "tags": ["Quotations"],
                "summary": "Quotation statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/quotations/{id}": {
            "get": {
                "tags": ["Quotations"],
                "summary": "Get quotation request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/quotations/{id}/proposals": {
            "get": {
                "tags": ["Proposals"],
                "summary": "List proposals ordered by total value",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Proposals"],
                "summary": "Submit supplier proposal",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitProposalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Request closed or duplicate proposal"}
                }
            }
        },
        "/proposals/{id}": {
            "get": {
                "tags": ["Proposals"],
                "summary": "Get proposal with its line items",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/quotations/{id}/comparison": {
            "get": {
                "tags": ["Awards"],
                "summary": "Compare proposals",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/quotations/{id}/award": {
            "get": {
                "tags": ["Awards"],
                "summary": "Get award decision",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not awarded"}
                }
            },
            "post": {
                "tags": ["Awards"],
                "summary": "Award quotation request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AwardRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Request already closed"}
                }
            }
        },
        "/quotations/{id}/contract": {
            "get": {
                "tags": ["Contracts"],
                "summary": "Get contract metadata",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "post": {
                "tags": ["Contracts"],
                "summary": "Generate supply contract PDF",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF file"},
                    "409": {"description": "Request not awarded"}
                }
            }
        },
        "/suppliers": {
            "get": {
                "tags": ["Suppliers"],
                "summary": "List suppliers",
                "parameters": [
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Suppliers"],
                "summary": "Register supplier",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSupplierRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/suppliers/{id}": {
            "get": {
                "tags": ["Suppliers"],
                "summary": "Get supplier",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Suppliers"],
                "summary": "Update supplier",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payments": {
            "post": {
                "tags": ["Payments"],
                "summary": "Register payment with installment schedule",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payments/due": {
            "get": {
                "tags": ["Payments"],
                "summary": "Installments due inside the window",
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payments/overdue": {
            "get": {
                "tags": ["Payments"],
                "summary": "Overdue installments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payments/{id}": {
            "get": {
                "tags": ["Payments"],
                "summary": "Get payment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payments/installments/{id}/pay": {
            "post": {
                "tags": ["Payments"],
                "summary": "Settle installment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Already settled"}
                }
            }
        },
        "/deliveries": {
            "post": {
                "tags": ["Deliveries"],
                "summary": "Open delivery order",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/deliveries/pending": {
            "get": {
                "tags": ["Deliveries"],
                "summary": "List undelivered orders",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/deliveries/{id}": {
            "get": {
                "tags": ["Deliveries"],
                "summary": "Get delivery order with tracking history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/deliveries/{id}/schedule": {
            "post": {
                "tags": ["Deliveries"],
                "summary": "Schedule delivery",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Order no longer pending"}
                }
            }
        },
        "/deliveries/{id}/status": {
            "patch": {
                "tags": ["Deliveries"],
                "summary": "Update delivery status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Transition not allowed"}
                }
            }
        },
        "/reports/quotations": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export quotation register",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/reports/savings": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export savings report",
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/deliveries/{id}/tracking": {
            "get": {
                "tags": ["Deliveries"],
                "summary": "Delivery tracking history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/stats": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Operations dashboard",
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
        "CreateQuotationRequest": {
            "type": "object",
            "properties": {
                "tender_reference": {"type": "string"},
                "description": {"type": "string"},
                "response_days": {"type": "integer"},
                "notes": {"type": "string"},
                "items": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/QuotationItemInput"}
                }
            },
            "required": ["tender_reference", "description", "items"]
        },
        "QuotationItemInput": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "description": {"type": "string"},
                "quantity": {"type": "integer"},
                "unit": {"type": "string"},
                "specifications": {"type": "string"}
            },
            "required": ["code", "description", "quantity", "unit"]
        },
        "SubmitProposalRequest": {
            "type": "object",
            "properties": {
                "supplier_id": {"type": "string"},
                "delivery_time": {"type": "string"},
                "payment_terms": {"type": "string"},
                "validity_days": {"type": "integer"},
                "notes": {"type": "string"},
                "line_prices": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ProposalLineInput"}
                }
            },
            "required": ["supplier_id", "delivery_time", "line_prices"]
        },
        "ProposalLineInput": {
            "type": "object",
            "properties": {
                "request_item_id": {"type": "string"},
                "unit_price": {"type": "number"},
                "brand": {"type": "string"},
                "model": {"type": "string"}
            },
            "required": ["request_item_id", "unit_price"]
        },
        "AwardRequest": {
            "type": "object",
            "properties": {
                "proposal_id": {"type": "string"},
                "criterion": {"type": "string", "enum": ["lowest_price", "best_value", "fastest_delivery"]},
                "justification": {"type": "string"}
            },
            "required": ["proposal_id", "criterion"]
        },
        "CreateSupplierRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "cnpj": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "whatsapp": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "category": {"type": "string"}
            },
            "required": ["name", "cnpj", "email"]
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

// Package docs holds the swagger registration for the trade credit ledger API.
// Regenerate the full document with `swag init -g cmd/tcl_backend/main.go -o cmd/docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ledger-accounts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ledger-accounts"],
                "summary": "List ledger accounts",
                "parameters": [
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ledger-accounts"],
                "summary": "Onboard a business",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/ledger-accounts/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ledger-accounts"],
                "summary": "Get a ledger account",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Account not found"}}
            }
        },
        "/ledger-accounts/{id}/purchase-orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ledger-accounts"],
                "summary": "List the account's purchase orders",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Account not found"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger-operations"],
                "summary": "Charge a purchase order to the credit line",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "422": {"description": "Insufficient available balance"}}
            }
        },
        "/ledger-accounts/{id}/purchase-orders/{poID}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger-operations"],
                "summary": "Cancel a purchase order",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "poID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Purchase order already closed"}}
            }
        },
        "/ledger-accounts/{id}/purchase-orders/{poID}/fulfill": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger-operations"],
                "summary": "Mark an approved purchase order as fulfilled",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "poID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Purchase order not approved"}}
            }
        },
        "/ledger-accounts/{id}/payments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ledger-accounts"],
                "summary": "List the account's payments",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Account not found"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger-operations"],
                "summary": "Submit a payment for review",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate reference"}}
            }
        },
        "/rates": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["rates"],
                "summary": "Current rate settings",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["rates"],
                "summary": "Replace a system rate",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/interest/quote": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["rates"],
                "summary": "Quote interest without applying it",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/accruals/run": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["accruals"],
                "summary": "Run interest accrual for one frequency",
                "responses": {"200": {"description": "OK"}, "409": {"description": "A run is already in progress"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Trade Credit Ledger API",
	Description:      "Credit lines, purchase orders, payments and interest accrual for business accounts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs holds the OpenAPI description served at /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Show the status of server",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Username and password",
                        "name": "credentials",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "400": {"description": "Malformed request", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Revokes every session of the caller. Tokens issued earlier stop working.",
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/accounts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List my accounts",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/model.AccountView"}}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/transfers": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Transfer money to another account",
                "parameters": [
                    {
                        "description": "Details of the transfer",
                        "name": "transfer",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.TransferRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.TransferResponse"}},
                    "400": {"description": "InvalidAmount, MemoTooLong, SameAccountTransfer or InsufficientFunds", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "403": {"description": "SourceNotOwnedByCaller", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "404": {"description": "SourceAccountNotFound, DestinationUserNotFound or DestinationAccountNotFound", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "503": {"description": "StorageUnavailable", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/activity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Recent activity",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of entries", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/model.ActivityView"}}
                    },
                    "400": {"description": "Invalid limit", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        }
    },
    "definitions": {
        "common.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "kind": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "model.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string", "maxLength": 64}
            }
        },
        "model.TransferRequest": {
            "type": "object",
            "required": ["from_account_id", "to_account", "to_user"],
            "properties": {
                "amount": {"type": "string", "example": "12.34"},
                "from_account_id": {"type": "integer"},
                "memo": {"type": "string", "maxLength": 140},
                "to_account": {"type": "string"},
                "to_user": {"type": "string"}
            }
        },
        "model.TransferResponse": {
            "type": "object",
            "properties": {
                "currency": {"type": "string"},
                "destination_balance": {"type": "integer"},
                "destination_balance_display": {"type": "string"},
                "entry_id": {"type": "integer"},
                "ok": {"type": "boolean"},
                "source_balance": {"type": "integer"},
                "source_balance_display": {"type": "string"}
            }
        },
        "model.AccountView": {
            "type": "object",
            "properties": {
                "balance": {"type": "integer"},
                "balance_display": {"type": "string"},
                "currency": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "model.ActivityView": {
            "type": "object",
            "properties": {
                "amount": {"type": "integer"},
                "amount_display": {"type": "string"},
                "created_at": {"type": "string"},
                "direction": {"type": "string", "enum": ["IN", "OUT"]},
                "entry_id": {"type": "integer"},
                "from_account_id": {"type": "integer"},
                "memo": {"type": "string"},
                "to_account_id": {"type": "integer"},
                "when": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Go-Ledger API",
	Description:      "A minimal double-entry style ledger: accounts, an append-only entry log and atomic transfers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

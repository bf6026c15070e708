// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/login": {
            "post": {
                "description": "Look up the user by email, creating it on first login, and open a session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Email",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Logged in, session cookie set", "schema": {"$ref": "#/definitions/dto.LoginResponse"}},
                    "400": {"description": "Email is required", "schema": {"type": "string"}}
                }
            }
        },
        "/logout": {
            "post": {
                "description": "Destroy the current session and clear the cookie",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log out",
                "responses": {
                    "200": {"description": "Logged out", "schema": {"$ref": "#/definitions/utils.MessageResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.User"}},
                    "403": {"description": "Unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/create-payment": {
            "post": {
                "description": "Create a hosted checkout session for the weekly arc-plus subscription",
                "produces": ["application/json"],
                "tags": ["Billing"],
                "summary": "Create checkout session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CreatePaymentResponse"}},
                    "400": {"description": "Already subscribed", "schema": {"type": "string"}},
                    "403": {"description": "User not logged in", "schema": {"type": "string"}},
                    "409": {"description": "Checkout already in progress", "schema": {"type": "string"}},
                    "500": {"description": "Payment gateway error", "schema": {"type": "string"}}
                }
            }
        },
        "/stripe-webhook": {
            "post": {
                "description": "Verify and apply a subscription lifecycle event",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Billing"],
                "summary": "Payment webhook",
                "parameters": [
                    {"type": "string", "description": "Webhook signature", "name": "Stripe-Signature", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.WebhookResponse"}},
                    "400": {"description": "Webhook error", "schema": {"type": "string"}}
                }
            }
        },
        "/api/arc-core": {
            "post": {
                "description": "Any signed-in user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Completion"],
                "summary": "arc-core completion",
                "parameters": [
                    {"description": "Prompt", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CompletionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/completion.Response"}},
                    "403": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "Arc-Core API error", "schema": {"type": "string"}}
                }
            }
        },
        "/api/arc-plus": {
            "post": {
                "description": "Subscribers only; premium status is checked against the store",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Completion"],
                "summary": "arc-plus completion",
                "parameters": [
                    {"description": "Prompt", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CompletionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/completion.Response"}},
                    "403": {"description": "Arc-Plus access required", "schema": {"type": "string"}},
                    "500": {"description": "Arc-Plus API error", "schema": {"type": "string"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "description": "Check if the application is alive",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "Application is alive", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Check the user store and session store are reachable",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Application is ready", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Service unavailable", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "completion.Choice": {
            "type": "object",
            "properties": {
                "finish_reason": {"type": "string"},
                "index": {"type": "integer"},
                "message": {"$ref": "#/definitions/completion.Message"}
            }
        },
        "completion.Message": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "completion.Response": {
            "type": "object",
            "properties": {
                "choices": {"type": "array", "items": {"$ref": "#/definitions/completion.Choice"}},
                "created": {"type": "integer"},
                "id": {"type": "string"},
                "model": {"type": "string"},
                "object": {"type": "string"},
                "usage": {"$ref": "#/definitions/completion.Usage"}
            }
        },
        "completion.Usage": {
            "type": "object",
            "properties": {
                "completion_tokens": {"type": "integer"},
                "prompt_tokens": {"type": "integer"},
                "total_tokens": {"type": "integer"}
            }
        },
        "dto.CompletionRequest": {
            "type": "object",
            "properties": {
                "prompt": {"type": "string"}
            }
        },
        "dto.CreatePaymentResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string"}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"}
            }
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/user.User"}
            }
        },
        "dto.WebhookResponse": {
            "type": "object",
            "properties": {
                "received": {"type": "boolean"}
            }
        },
        "user.User": {
            "type": "object",
            "properties": {
                "billingCustomerId": {"type": "string"},
                "billingSubscriptionId": {"type": "string"},
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "isPremium": {"type": "boolean"},
                "updatedAt": {"type": "string"}
            }
        },
        "utils.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "arcgate API",
	Description:      "Email login, weekly arc-plus subscriptions and tiered chat completions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

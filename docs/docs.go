// Package docs registers the OpenAPI document served by the HTTP transport's
// Swagger UI. Regenerate with `swag init -g cmd/deskpilot/main.go`.
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
        "/api/get-help": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "commands"
                ],
                "summary": "List example commands",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/command.Help"
                        }
                    }
                }
            }
        },
        "/api/process-command": {
            "post": {
                "description": "Classifies the free text into the command grammar and executes it on this machine\n(filesystem, volume or brightness). The outcome is always returned as a status line\nwith HTTP 200; failures are described in the text, not the status code.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "commands"
                ],
                "summary": "Process a spoken command",
                "parameters": [
                    {
                        "description": "Spoken command",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/http.CommandRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Status line",
                        "schema": {
                            "$ref": "#/definitions/http.CommandResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "command.Help": {
            "type": "object",
            "properties": {
                "advanced_commands": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "basic_commands": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "http.CommandRequest": {
            "type": "object",
            "properties": {
                "command": {
                    "type": "string",
                    "example": "create a folder called Projects"
                },
                "response_mode": {
                    "type": "string",
                    "example": "text"
                }
            }
        },
        "http.CommandResponse": {
            "type": "object",
            "properties": {
                "response": {
                    "type": "string",
                    "example": "📁 Folder 'Projects' created successfully."
                },
                "response_audio": {
                    "type": "string"
                },
                "response_content_type": {
                    "type": "string"
                }
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
	Title:            "deskpilot API",
	Description:      "Voice-driven desktop commands: files, folders, volume and brightness.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

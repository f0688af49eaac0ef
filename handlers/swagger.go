package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers Swagger/OpenAPI endpoints for the todo API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
// - GET /swagger/todo.schema.json -> JSON Schema of a single todo
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})

	rg.GET("/swagger/todo.schema.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/schema+json", []byte(TodoSchema))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>todo-api - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// TodoSchema describes a todo as returned by the API.
const TodoSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "title", "description", "status", "created_at"],
  "additionalProperties": false,
  "properties": {
    "id": { "type": "integer", "minimum": 1 },
    "title": { "type": "string", "minLength": 3, "maxLength": 200 },
    "description": { "type": "string", "maxLength": 1000 },
    "status": { "type": "string", "enum": ["open", "in_progress", "done"] },
    "created_at": { "type": "string", "format": "date-time" }
  }
}`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "todo-api", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Todo": {
        "type": "object",
        "properties": {
          "id": { "type": "integer", "readOnly": true },
          "title": { "type": "string", "minLength": 3, "maxLength": 200 },
          "description": { "type": "string", "maxLength": 1000 },
          "status": { "type": "string", "enum": ["open", "in_progress", "done"], "default": "open" },
          "created_at": { "type": "string", "format": "date-time", "readOnly": true }
        }
      },
      "TodoPage": {
        "type": "object",
        "properties": {
          "count": { "type": "integer" },
          "next": { "type": "string", "nullable": true },
          "previous": { "type": "string", "nullable": true },
          "results": { "type": "array", "items": { "$ref": "#/components/schemas/Todo" } }
        }
      },
      "FieldErrors": { "type": "object", "additionalProperties": { "type": "array", "items": { "type": "string" } } },
      "Error": { "type": "object", "properties": { "error": { "type": "string" } } }
    },
    "parameters": {
      "TodoID": { "name": "id", "in": "path", "required": true, "schema": { "type": "integer" } }
    },
    "responses": {
      "BadRequest": { "description": "validation failed", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/FieldErrors" } } } },
      "NotFound": { "description": "todo not found", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Error" } } } },
      "ServerError": { "description": "database or unexpected error", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Error" } } } }
    }
  },
  "paths": {
    "/todos": {
      "get": {
        "summary": "List todos, newest first",
        "parameters": [
          { "name": "status", "in": "query", "schema": { "type": "string" }, "description": "comma separated or repeated status filter" },
          { "name": "search", "in": "query", "schema": { "type": "string" }, "description": "case-insensitive match on title or description" },
          { "name": "ordering", "in": "query", "schema": { "type": "string", "enum": ["-created_at", "created_at"] } },
          { "name": "page", "in": "query", "schema": { "type": "integer", "minimum": 1 }, "description": "only when PAGE_SIZE is set" }
        ],
        "responses": {
          "200": { "description": "array of todos, or a TodoPage when paginated" },
          "400": { "$ref": "#/components/responses/BadRequest" },
          "404": { "description": "invalid page" },
          "500": { "$ref": "#/components/responses/ServerError" }
        }
      },
      "post": {
        "summary": "Create a todo",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Todo" } } } },
        "responses": {
          "201": { "description": "created", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Todo" } } } },
          "400": { "$ref": "#/components/responses/BadRequest" },
          "500": { "$ref": "#/components/responses/ServerError" }
        }
      }
    },
    "/todos/{id}": {
      "parameters": [ { "$ref": "#/components/parameters/TodoID" } ],
      "get": {
        "summary": "Retrieve a todo",
        "responses": { "200": { "description": "the todo" }, "404": { "$ref": "#/components/responses/NotFound" }, "500": { "$ref": "#/components/responses/ServerError" } }
      },
      "put": {
        "summary": "Update a todo (title required)",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Todo" } } } },
        "responses": { "200": { "description": "updated" }, "400": { "$ref": "#/components/responses/BadRequest" }, "404": { "$ref": "#/components/responses/NotFound" }, "500": { "$ref": "#/components/responses/ServerError" } }
      },
      "patch": {
        "summary": "Partially update a todo",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Todo" } } } },
        "responses": { "200": { "description": "updated" }, "400": { "$ref": "#/components/responses/BadRequest" }, "404": { "$ref": "#/components/responses/NotFound" }, "500": { "$ref": "#/components/responses/ServerError" } }
      },
      "delete": {
        "summary": "Delete a todo",
        "responses": { "204": { "description": "deleted" }, "404": { "$ref": "#/components/responses/NotFound" }, "500": { "$ref": "#/components/responses/ServerError" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`

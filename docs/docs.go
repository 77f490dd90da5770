// Package docs registra a especificação OpenAPI servida em /swagger.
// Regenere com: swag init -g cmd/main.go -o docs
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/register": {"post": {"tags": ["users"], "summary": "Registra um novo usuário",
            "parameters": [{"in": "body", "name": "registration", "required": true, "schema": {"$ref": "#/definitions/domain.UserRegistration"}}],
            "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.User"}},
                          "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/login": {"post": {"tags": ["users"], "summary": "Autentica um usuário e retorna um JWT",
            "parameters": [{"in": "body", "name": "login", "required": true, "schema": {"$ref": "#/definitions/domain.UserLogin"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TokenResponse"}},
                          "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/me": {"get": {"tags": ["users"], "summary": "Retorna o usuário autenticado", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                          "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/products": {
            "get": {"tags": ["products"], "summary": "Lista produtos", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["products"], "summary": "Cria um produto", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/products/{id}": {
            "get": {"tags": ["products"], "summary": "Busca um produto", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["products"], "summary": "Atualiza um produto", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["products"], "summary": "Remove um produto", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "No Content"}}}},
        "/warehouses": {
            "get": {"tags": ["warehouses"], "summary": "Lista armazéns", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["warehouses"], "summary": "Cria um armazém", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/warehouses/stats": {"get": {"tags": ["warehouses"], "summary": "Resumo de estoque por armazém", "responses": {"200": {"description": "OK"}}}},
        "/warehouses/{id}/inventory-summary": {"get": {"tags": ["warehouses"], "summary": "Resumo de estoque do armazém", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}},
        "/inventory": {
            "get": {"tags": ["inventory"], "summary": "Lista linhas de estoque", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["inventory"], "summary": "Cria uma linha de estoque", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/inventory/{id}/adjust": {"post": {"tags": ["inventory"], "summary": "Ajusta a quantidade com bloqueio de linha", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "422": {"description": "Estoque insuficiente"}}}},
        "/customers": {
            "get": {"tags": ["customers"], "summary": "Lista clientes", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["customers"], "summary": "Cria um cliente", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/orders": {
            "get": {"tags": ["orders"], "summary": "Lista pedidos", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["orders"], "summary": "Cria um pedido com baixa de estoque", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "order", "required": true, "schema": {"$ref": "#/definitions/domain.CreateOrderRequest"}}],
                "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}, "422": {"description": "Estoque insuficiente"}}}},
        "/orders/stats": {"get": {"tags": ["orders"], "summary": "Estatísticas de pedidos", "responses": {"200": {"description": "OK"}}}},
        "/orders/statuses": {"get": {"tags": ["orders"], "summary": "Lista os status de pedido", "responses": {"200": {"description": "OK"}}}},
        "/orders/{id}": {
            "get": {"tags": ["orders"], "summary": "Busca um pedido", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["orders"], "summary": "Exclui o pedido e devolve o estoque", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/orders/{id}/status": {"put": {"tags": ["orders"], "summary": "Sobrescreve o status do pedido", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}},
        "/orders/{id}/cancel": {"post": {"tags": ["orders"], "summary": "Cancela o pedido e devolve o estoque", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/shipments": {
            "get": {"tags": ["shipments"], "summary": "Lista remessas", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["shipments"], "summary": "Cria uma remessa", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/shipments/{id}/status": {"put": {"tags": ["shipments"], "summary": "Atualiza o status da remessa", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}}
    },
    "parameters": {
        "id": {"in": "path", "name": "id", "required": true, "type": "integer"}
    },
    "definitions": {
        "domain.ErrorResponse": {"type": "object", "properties": {
            "code": {"type": "integer"}, "category": {"type": "string"}, "message": {"type": "string"}, "details": {"type": "object"}}},
        "domain.UserRegistration": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "domain.UserLogin": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "domain.TokenResponse": {"type": "object", "properties": {"token": {"type": "string"}}},
        "domain.User": {"type": "object", "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "role": {"type": "string"}}},
        "domain.CreateOrderRequest": {"type": "object", "properties": {
            "customer_id": {"type": "integer"}, "shipping_address": {"type": "string"}, "notes": {"type": "string"},
            "items": {"type": "array", "items": {"type": "object", "properties": {
                "product_id": {"type": "integer"}, "warehouse_id": {"type": "integer"}, "quantity": {"type": "integer"}}}}}}
    }
}`

// SwaggerInfo guarda as informações exportadas da API.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "GoWMS API",
	Description:      "Back office de armazéns: estoque, pedidos com baixa atômica e remessas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

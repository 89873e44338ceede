// Package docs регистрирует описание API для swag.
// Аннотации находятся в обработчиках internal/interface/http/handler.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/sync-user": {"post": {"tags": ["auth"], "summary": "Синхронизировать пользователя Telegram", "security": [{"TelegramInitData": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}},
        "/orders": {
            "get": {"tags": ["orders"], "summary": "Мои заказы", "security": [{"TelegramInitData": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["orders"], "summary": "Создать заказ", "security": [{"TelegramInitData": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/orders/{id}": {"get": {"tags": ["orders"], "summary": "Заказ с этапами", "security": [{"TelegramInitData": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/orders/{id}/comments": {
            "get": {"tags": ["comments"], "summary": "Комментарии заказа", "security": [{"TelegramInitData": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["comments"], "summary": "Написать комментарий", "security": [{"TelegramInitData": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/profile/stats": {"get": {"tags": ["profile"], "summary": "Сводка по заказам", "security": [{"TelegramInitData": []}], "responses": {"200": {"description": "OK"}}}},
        "/portfolio": {"get": {"tags": ["portfolio"], "summary": "Портфолио", "parameters": [{"type": "string", "name": "category", "in": "query"}, {"type": "string", "name": "q", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/portfolio/{id}": {"get": {"tags": ["portfolio"], "summary": "Кейс портфолио", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/telegram/notify": {"post": {"tags": ["telegram"], "summary": "Уведомить о новом заказе", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/telegram/comment": {"post": {"tags": ["telegram"], "summary": "Уведомить о комментарии", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/media": {"post": {"tags": ["media"], "summary": "Загрузить вложение", "consumes": ["multipart/form-data"], "security": [{"TelegramInitData": []}], "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}], "responses": {"201": {"description": "Created"}, "413": {"description": "Payload Too Large"}}}},
        "/ws": {"get": {"tags": ["realtime"], "summary": "Подписка на изменения", "parameters": [{"type": "string", "name": "token", "in": "query", "required": true}, {"type": "string", "name": "channel", "in": "query", "required": true}, {"type": "string", "name": "order_id", "in": "query"}], "responses": {"101": {"description": "Switching Protocols"}}}},
        "/admin/orders/{id}/status": {"patch": {"tags": ["admin"], "summary": "Сменить статус заказа", "security": [{"AdminToken": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/stages/{id}/status": {"patch": {"tags": ["admin"], "summary": "Сменить статус этапа", "security": [{"AdminToken": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/orders/{id}/comments": {"post": {"tags": ["admin"], "summary": "Внутренняя заметка", "security": [{"AdminToken": []}], "responses": {"201": {"description": "Created"}}}}
    },
    "securityDefinitions": {
        "TelegramInitData": {"type": "apiKey", "name": "X-Telegram-Init-Data", "in": "header"},
        "AdminToken": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Designer Studio API",
	Description:      "Backend Telegram Mini App дизайн-студии: заказы, этапы, комментарии, портфолио.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

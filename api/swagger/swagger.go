package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "StudyQuest Gamification API",
        "description": "Weekly achievement selection, progress tracking and point wagering",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Gamification", "description": "Weekly achievement selection & progress"},
        {"name": "Points", "description": "Spendable points, grade XP and wagering"}
    ],
    "paths": {
        "/gamification/achievements": {
            "get": {
                "tags": ["Gamification"],
                "summary": "List achievement definitions",
                "parameters": [
                    {"name": "difficulty", "in": "query", "type": "string", "enum": ["easy", "medium", "hard"]},
                    {"name": "category", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gamification/selection": {
            "get": {
                "tags": ["Gamification"],
                "summary": "Get or create this week's selection",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gamification/selection/refresh": {
            "post": {
                "tags": ["Gamification"],
                "summary": "Reroll this week's selection",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gamification/selection/availability": {
            "get": {
                "tags": ["Gamification"],
                "summary": "Remaining drawable achievements per tier",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gamification/selection/usage": {
            "get": {
                "tags": ["Gamification"],
                "summary": "Usage ledger statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gamification/progress": {
            "get": {
                "tags": ["Gamification"],
                "summary": "Live progress for this week's selection",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gamification/points": {
            "get": {
                "tags": ["Points"],
                "summary": "Spendable points with breakdown",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gamification/points/grades": {
            "get": {
                "tags": ["Points"],
                "summary": "Weekly grade XP history",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gamification/points/wager": {
            "post": {
                "tags": ["Points"],
                "summary": "Deduct points for a wager",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WagerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gamification/points/award": {
            "post": {
                "tags": ["Points"],
                "summary": "Credit winnings to the ledger",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AwardRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gamification/streaks": {
            "get": {
                "tags": ["Points"],
                "summary": "Streak multipliers and points",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "AchievementDefinition": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "difficulty": {"type": "string"},
                "category": {"type": "string"},
                "points": {"type": "integer"},
                "requirement": {"$ref": "#/definitions/Requirement"}
            }
        },
        "Requirement": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "target": {"type": "integer"},
                "threshold": {"type": "number"}
            }
        },
        "WeeklySelection": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "week_start": {"type": "string"},
                "week_end": {"type": "string"},
                "easy": {"$ref": "#/definitions/AchievementDefinition"},
                "medium": {"$ref": "#/definitions/AchievementDefinition"},
                "hard": {"$ref": "#/definitions/AchievementDefinition"}
            }
        },
        "WagerRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "integer"}
            },
            "required": ["amount"]
        },
        "AwardRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "integer"}
            },
            "required": ["amount"]
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

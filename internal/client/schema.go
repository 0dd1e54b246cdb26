package client

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Response shapes the engine relies on. Extra fields are always allowed.
var (
	catalogSchema = mustSchema(`{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["_id"],
			"properties": {"_id": {"type": "string", "minLength": 1}}
		}
	}`)

	sessionSchema = mustSchema(`{
		"type": "object",
		"required": ["_id"],
		"properties": {
			"_id": {"type": "string", "minLength": 1},
			"messages": {
				"type": ["array", "null"],
				"items": {
					"type": "object",
					"required": ["role", "content"],
					"properties": {"role": {"type": "string"}, "content": {"type": "string"}}
				}
			}
		}
	}`)

	messageSchema = mustSchema(`{
		"type": "object",
		"required": ["reply"],
		"properties": {
			"reply": {"type": "string", "minLength": 1},
			"chatId": {"type": "string"}
		}
	}`)

	replySchema = mustSchema(`{
		"type": "object",
		"required": ["reply"],
		"properties": {"reply": {"type": "string", "minLength": 1}}
	}`)

	questionsSchema = mustSchema(`{
		"type": "object",
		"required": ["questions"],
		"properties": {
			"questions": {"type": "array", "minItems": 1, "items": {"type": "string"}}
		}
	}`)

	evaluationSchema = mustSchema(`{
		"type": "object",
		"required": ["feedback"],
		"properties": {
			"feedback": {"type": "string"},
			"verdict": {"type": "string", "enum": ["correct", "incorrect", "partial", ""]}
		}
	}`)
)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid response schema: %v", err))
	}
	return schema
}

// validate checks body against schema and reports the first violations.
func validate(op string, schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &MalformedResponseError{Op: op, Reason: err.Error()}
	}
	if result.Valid() {
		return nil
	}

	var reasons []string
	for _, re := range result.Errors() {
		reasons = append(reasons, re.String())
	}
	return &MalformedResponseError{Op: op, Reason: strings.Join(reasons, "; ")}
}

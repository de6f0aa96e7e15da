package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// messageSchema describes the receive_message envelope. Every business_data
// field is optional; the ones that are present must have the type the
// report engine reads them as.
const messageSchema = `{
  "type": "object",
  "required": ["agent_type", "business_data", "timestamp", "request_id"],
  "properties": {
    "agent_type":  {"type": "string"},
    "timestamp":   {"type": "string"},
    "request_id":  {"type": "string"},
    "business_data": {
      "type": "object",
      "properties": {
        "business_name":      {"type": ["string", "null"]},
        "business_type":      {"type": ["string", "null"]},
        "location":           {"type": ["string", "null"]},
        "description":        {"type": ["string", "null"]},
        "target_market":      {"type": ["string", "null"]},
        "industry":           {"type": ["string", "null"]},
        "business_model":     {"type": ["string", "null"]},
        "initial_investment": {"type": ["number", "null"]},
        "team_size":          {"type": ["integer", "null"]},
        "growth_goals": {
          "type": ["array", "null"],
          "items": {"type": "string"}
        }
      }
    },
    "strategic_plan": {
      "type": ["object", "null"],
      "properties": {
        "growth_strategy": {
          "type": ["object", "null"],
          "properties": {
            "short_term_goals": {
              "type": ["array", "null"],
              "items": {"type": "string"}
            }
          }
        }
      }
    }
  }
}`

var compiledMessageSchema = mustCompile(messageSchema)

func mustCompile(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("api: compile schema: %v", err))
	}
	return schema
}

// validateMessage checks raw against the receive_message schema. All
// violations are reported in one error.
func validateMessage(raw []byte) error {
	result, err := compiledMessageSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return errors.New("invalid message: " + strings.Join(msgs, "; "))
	}

	return nil
}

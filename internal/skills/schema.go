package skills

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/xeipuuv/gojsonschema"
)

const requirementSchema = `{
  "type": "object",
  "required": ["must_have"],
  "properties": {
    "must_have": {"type": "array", "items": {"type": "string"}},
    "good_to_have": {"type": "array", "items": {"type": "string"}}
  }
}`

var requirementSchemaLoader = gojsonschema.NewStringLoader(requirementSchema)

// parseRequirement validates a model response against the requirement schema
// and decodes it. Blank entries are dropped and both lists are truncated.
func parseRequirement(raw string) (Requirement, error) {
	cleaned := ai.ExtractJSON(raw)

	result, err := gojsonschema.Validate(requirementSchemaLoader, gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return Requirement{}, fmt.Errorf("parse requirement response: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return Requirement{}, fmt.Errorf("requirement response does not match schema: %s", strings.Join(msgs, "; "))
	}

	data, err := ai.DecodeObject(cleaned)
	if err != nil {
		return Requirement{}, err
	}

	var req Requirement
	if err := mapstructure.Decode(data, &req); err != nil {
		return Requirement{}, fmt.Errorf("decode requirement response: %w", err)
	}

	req.MustHave = compact(req.MustHave)
	req.GoodToHave = compact(req.GoodToHave)
	if len(req.MustHave) == 0 {
		return Requirement{}, errors.New("requirement response has no must-have skills")
	}

	return req.truncate(), nil
}

func compact(list []string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

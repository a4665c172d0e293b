package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// TextCodeFrontmatterInvalid marks frontmatter rejected by the schema.
const TextCodeFrontmatterInvalid = "FRONTMATTER_INVALID"

var ErrSchemaValidation = errors.New("schema validation failed")

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError lists every issue found in a payload.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

func frontmatterSchema(required []string) map[string]any {
	stringArray := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":                map[string]any{"type": "string", "minLength": 1},
			"date":                 map[string]any{"type": "string", "minLength": 1},
			"description":          map[string]any{"type": "string"},
			"images":               stringArray,
			"tags":                 stringArray,
			"draft":                map[string]any{"type": "boolean"},
			"github-status":        map[string]any{"type": "string"},
			"hashnode-status":      map[string]any{"type": "string"},
			"hashnode-slug":        map[string]any{"type": "string"},
			"hashnode-cover-image": map[string]any{"type": "string"},
		},
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var schemaCache sync.Map

func compiledFrontmatterSchema(required []string) (*jsonschema.Schema, error) {
	key := strings.Join(required, "\x00")
	if cached, ok := schemaCache.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}
	compiled, err := compileSchema(frontmatterSchema(required))
	if err != nil {
		return nil, err
	}
	schemaCache.Store(key, compiled)
	return compiled, nil
}

// ValidateFrontmatter checks the recognised keys of a metadata block. Keys
// listed in required must be present. Unknown keys are allowed. The returned
// error carries the validation category and every issue under the "issues"
// metadata key.
func ValidateFrontmatter(fm map[string]any, required ...string) error {
	required = slices.Clone(required)
	slices.Sort(required)

	compiled, err := compiledFrontmatterSchema(required)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "validation: compile frontmatter schema")
	}

	instance, err := toJSONValue(fm)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "validation: frontmatter is not representable as JSON").
			WithTextCode(TextCodeFrontmatterInvalid)
	}

	if err := compiled.Validate(instance); err != nil {
		payloadErr := &PayloadValidationError{Issues: Issues(err), Cause: err}
		return goerrors.Wrap(payloadErr, goerrors.CategoryValidation, "validation: frontmatter rejected").
			WithTextCode(TextCodeFrontmatterInvalid).
			WithMetadata(map[string]any{"issues": issueStrings(payloadErr.Issues)})
	}
	return nil
}

// The validator works on the JSON data model; TOML dates become RFC 3339
// strings and integer widths collapse to json.Number.
func toJSONValue(fm map[string]any) (any, error) {
	if fm == nil {
		fm = map[string]any{}
	}
	encoded, err := json.Marshal(maps.Clone(fm))
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func issueStrings(issues []ValidationIssue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		out = append(out, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return out
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("frontmatter.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("frontmatter.json")
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

package schema

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/binwrap/binwrap-go/contracts"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator checks records against one compiled schema document.
type Validator struct {
	id       uint32
	compiled *jsonschema.Schema
}

// NewValidator compiles a schema descriptor. The document must be a valid
// JSON Schema; an empty document fails with contracts.ErrInvalidArgument.
func NewValidator(descriptor contracts.SchemaDescriptor) (*Validator, error) {
	if len(descriptor.Document) == 0 {
		return nil, fmt.Errorf("%w: empty schema document", contracts.ErrInvalidArgument)
	}
	name := fmt.Sprintf("schema-%d.json", descriptor.ID)
	compiled, err := jsonschema.CompileString(name, string(descriptor.Document))
	if err != nil {
		return nil, fmt.Errorf("compile schema %d: %w", descriptor.ID, err)
	}
	return &Validator{id: descriptor.ID, compiled: compiled}, nil
}

// SchemaID returns the numeric identifier records are tagged with.
func (v *Validator) SchemaID() uint32 {
	return v.id
}

// Validate checks a record against the schema. Failures are reported as
// *contracts.SchemaViolationError; the record is never partially accepted.
func (v *Validator) Validate(record contracts.Value) error {
	err := v.compiled.Validate(jsonShape(record))
	if err == nil {
		return nil
	}
	violation := &contracts.SchemaViolationError{SchemaID: v.id}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		violation.Causes = flattenCauses(verr)
	} else {
		violation.Causes = []string{err.Error()}
	}
	return violation
}

// jsonShape converts a record to the plain JSON value shapes the validator
// understands. Integers become json.Number so magnitude is preserved, and
// byte-strings are validated as their base64 text form.
func jsonShape(v contracts.Value) any {
	switch v.Kind() {
	case contracts.KindNull:
		return nil
	case contracts.KindBool:
		return v.Bool()
	case contracts.KindInt:
		return json.Number(strconv.FormatInt(v.Int(), 10))
	case contracts.KindFloat:
		return v.Float()
	case contracts.KindString:
		return v.Text()
	case contracts.KindBytes:
		return base64.StdEncoding.EncodeToString(v.Bin())
	case contracts.KindArray:
		items := make([]any, v.Len())
		for i, item := range v.Items() {
			items[i] = jsonShape(item)
		}
		return items
	case contracts.KindMap:
		m := make(map[string]any, v.Len())
		for _, member := range v.Members() {
			m[member.Key] = jsonShape(member.Value)
		}
		return m
	default:
		return nil
	}
}

// flattenCauses collects the leaf failure messages of a validation error
// tree, prefixed with the failing instance location.
func flattenCauses(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		location := verr.InstanceLocation
		if location == "" {
			location = "/"
		}
		return []string{fmt.Sprintf("%s: %s", location, verr.Message)}
	}
	var causes []string
	for _, cause := range verr.Causes {
		causes = append(causes, flattenCauses(cause)...)
	}
	return causes
}

// Package schema validates records against opaque JSON Schema documents.
//
// The schema language itself is handled by santhosh-tekuri/jsonschema; this
// package only adapts between the contracts.Value record shape and the
// validator, and turns validation failures into
// contracts.SchemaViolationError values tagged with the schema id.
package schema

// Package contracts provides the core data model shared by every binwrap component.
//
// This package defines:
//   - Value: a closed tagged-variant type for structured records
//     (null, bool, integer, float, string, bytes, array, ordered map)
//   - Envelope: the self-describing binary unit produced by serialization
//     (header + metadata + payload)
//   - Metadata: how to interpret an envelope payload
//   - SchemaDescriptor: an opaque schema document with a numeric identifier
//   - The error taxonomy used across the pipeline
//
// All types here are plain data. Behavior lives in the codec, security,
// schema, pipeline, chunker and storage packages.
package contracts

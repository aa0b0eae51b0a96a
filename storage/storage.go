// Package storage maps envelopes to and from durable storage as flat byte
// streams.
//
// Writes are single contiguous writes but not atomic: a failed Save may
// leave a partially written destination behind. Callers that need atomicity
// must wrap Save with their own temp-file-then-rename scheme.
package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/binwrap/binwrap-go/codec"
	"github.com/binwrap/binwrap-go/contracts"
)

// Save writes an envelope to a file in the envelope wire layout.
func Save(env *contracts.Envelope, path string) error {
	data, err := codec.Marshal(env)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	return nil
}

// SaveTo writes an envelope to a stream as one contiguous write.
func SaveTo(w io.Writer, env *contracts.Envelope) error {
	data, err := codec.Marshal(env)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	return nil
}

// Load reads an envelope from a file. Corrupt or foreign content fails with
// a format error; an unreadable file fails with the wrapped I/O error.
func Load(path string) (*contracts.Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	return codec.Unmarshal(data)
}

// LoadFrom reads an envelope from a stream, consuming it to the end.
func LoadFrom(r io.Reader) (*contracts.Envelope, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	return codec.Unmarshal(data)
}

// Package persistence encodes values stored by the embedding cache.
package persistence

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Encode gob-encodes object into a byte slice suitable for a key/value store.
func Encode(object interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(object); err != nil {
		return nil, fmt.Errorf("failed to gob encode %T: %w", object, err)
	}
	return buf.Bytes(), nil
}

// Decode decodes gob data into objectPointer.
// The object must be a pointer to the type that was originally encoded.
func Decode(data []byte, objectPointer interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to gob decode into %T: %w", objectPointer, err)
	}
	return nil
}

// EncodeVector encodes an embedding vector.
func EncodeVector(vec []float32) ([]byte, error) {
	return Encode(vec)
}

// DecodeVector decodes a vector written by EncodeVector.
func DecodeVector(data []byte) ([]float32, error) {
	var vec []float32
	if err := Decode(data, &vec); err != nil {
		return nil, err
	}
	return vec, nil
}

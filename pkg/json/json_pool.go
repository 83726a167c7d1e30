// Package json provides JSON serialization helpers backed by pooled
// encode buffers. Encoding stages output in a buffer checked out of a
// bounded pool, so bursty encoding reuses scratch space instead of
// allocating per call, and each encoded value reaches the destination
// writer in a single Write.
package json

import (
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/reservoir/pkg/pool"
)

const (
	encodeBufferBytes = 4 * 1024
	encodeBufferMax   = 256
)

// Shared across the process. The pool is never closed; buffers live for
// the lifetime of the program.
var encodeBuffers = pool.New(0, encodeBufferMax,
	pool.BufferFactory(encodeBufferBytes),
	pool.WithName("json-encode"))

// Marshal encodes v, delegating to goccy/go-json.
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal decodes data into v, delegating to goccy/go-json.
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalIndent encodes v with indentation, delegating to goccy/go-json.
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// EncodeTo encodes v to w with a trailing newline. Output is staged in a
// pooled buffer so w sees exactly one Write per value; when the buffer
// pool is exhausted the value is streamed to w directly instead.
func EncodeTo(w io.Writer, v interface{}) error {
	h, ok := encodeBuffers.TryAcquire()
	if !ok {
		return gojson.NewEncoder(w).Encode(v)
	}
	defer h.Release()

	// A freshly acquired handle is sole owner, so Exclusive cannot fail.
	buf, _ := h.Exclusive()
	if err := gojson.NewEncoder(buf).Encode(v); err != nil {
		return err
	}

	_, err := w.Write(buf.B)
	return err
}

// MarshalLines encodes each value as one newline-terminated JSON document
// and returns the concatenated result.
func MarshalLines(values ...interface{}) ([]byte, error) {
	if h, ok := encodeBuffers.TryAcquire(); ok {
		defer h.Release()

		buf, _ := h.Exclusive()
		if err := encodeLines(buf, values); err != nil {
			return nil, err
		}
		// Copy out: the buffer goes back to the pool when the handle
		// is released.
		out := make([]byte, len(buf.B))
		copy(out, buf.B)
		return out, nil
	}

	buf := pool.NewBuffer(encodeBufferBytes)
	if err := encodeLines(buf, values); err != nil {
		return nil, err
	}
	return buf.B, nil
}

func encodeLines(buf *pool.Buffer, values []interface{}) error {
	enc := gojson.NewEncoder(buf)
	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

// Package wire implements the (name, version)-keyed binary envelope from
// §6 of the specification, using encoding/gob: the only binary codec the
// standard library offers without code generation. This is the one place
// the implementation falls back to the standard library rather than a
// library already present in the retrieval pack — see DESIGN.md for why
// no corpus repo offers a usable hand-writable binary codec.
package wire

import (
	"bytes"
	"encoding/gob"
	"errors"
)

// Envelope is the frame every RPC query, response, and PlayerUpdate
// stream message travels in. Payload holds the gob encoding of the
// frame's concrete type; keeping Name/Version alongside the raw bytes
// lets a receiver reject a mismatched frame before attempting to decode
// a payload it doesn't understand.
type Envelope struct {
	Name    string
	Version int
	Payload []byte
}

// ErrVersionMismatch is returned by Decode when a frame's declared name
// or version does not match what the caller expected, per §6's
// "a receiver must reject frames whose version does not match."
var ErrVersionMismatch = errors.New("wire: frame name/version mismatch")

// Encode gob-encodes v as the payload of a (name, version) frame and
// returns the complete wire bytes.
func Encode(name string, version int, v any) ([]byte, error) {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(v); err != nil {
		return nil, err
	}
	var frame bytes.Buffer
	env := Envelope{Name: name, Version: version, Payload: payload.Bytes()}
	if err := gob.NewEncoder(&frame).Encode(env); err != nil {
		return nil, err
	}
	return frame.Bytes(), nil
}

// Decode reads a frame's Envelope, checks it matches (name, version),
// and gob-decodes its payload into out, which must be a pointer to the
// frame's concrete type.
func Decode(data []byte, name string, version int, out any) error {
	var env Envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return err
	}
	if env.Name != name || env.Version != version {
		return ErrVersionMismatch
	}
	return gob.NewDecoder(bytes.NewReader(env.Payload)).Decode(out)
}

// Peek decodes only the Envelope, for a dispatcher that must read a
// frame's name before it knows which concrete type to decode the
// payload into.
func Peek(data []byte) (Envelope, error) {
	var env Envelope
	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env)
	return env, err
}

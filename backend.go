package json

import (
	"encoding/json"

	"github.com/bytedance/sonic"
	gojson "github.com/goccy/go-json"
)

// Backend is a pluggable JSON text codec. The serializer hands it a
// normalized tree of primitives and containers, so every backend produces
// equivalent output; they differ only in speed. Decoding is delegated to
// the backend untouched.
type Backend interface {
	Name() string
	Marshal(v any) ([]byte, error)
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// NewBackend returns the named backend: "standard" (encoding/json),
// "goccy" (goccy/go-json), "sonic" (bytedance/sonic), or "auto"/"" which
// selects goccy.
func NewBackend(name string) (Backend, error) {
	switch name {
	case "", BackendAuto, BackendGoccy:
		return goccyBackend{}, nil
	case BackendStandard:
		return standardBackend{}, nil
	case BackendSonic:
		return sonicBackend{}, nil
	default:
		return nil, newConfigError("new_backend", "unsupported backend: "+name)
	}
}

type standardBackend struct{}

func (standardBackend) Name() string { return BackendStandard }

func (standardBackend) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (standardBackend) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}

func (standardBackend) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

type goccyBackend struct{}

func (goccyBackend) Name() string { return BackendGoccy }

func (goccyBackend) Marshal(v any) ([]byte, error) {
	return gojson.Marshal(v)
}

func (goccyBackend) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

func (goccyBackend) Unmarshal(data []byte, v any) error {
	return gojson.Unmarshal(data, v)
}

// sonicBackend uses sonic's standard-library-compatible profile so map
// keys stay sorted and output matches the other backends byte for byte.
type sonicBackend struct{}

func (sonicBackend) Name() string { return BackendSonic }

func (sonicBackend) Marshal(v any) ([]byte, error) {
	return sonic.ConfigStd.Marshal(v)
}

func (sonicBackend) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(v, prefix, indent)
}

func (sonicBackend) Unmarshal(data []byte, v any) error {
	return sonic.ConfigStd.Unmarshal(data, v)
}

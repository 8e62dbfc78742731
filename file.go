package json

import (
	"os"
	"path/filepath"
)

// SaveFile converts value to JSON and writes it to path, creating parent
// directories as needed. Pass pretty=true for indented output.
func SaveFile(path string, value any, pretty ...bool) error {
	return getDefaultSerializer().SaveFile(path, value, pretty...)
}

// LoadFile reads a JSON file and returns the decoded tree.
func LoadFile(path string) (any, error) {
	return getDefaultSerializer().LoadFile(path)
}

// UnmarshalFile reads a JSON file and unmarshals it into v.
func UnmarshalFile(path string, v any) error {
	return getDefaultSerializer().UnmarshalFile(path, v)
}

// SaveFile converts value to JSON and writes it to path, creating parent
// directories as needed.
func (s *Serializer) SaveFile(path string, value any, pretty ...bool) error {
	var data []byte
	var err error
	if len(pretty) > 0 && pretty[0] {
		data, err = s.MarshalIndent(value, "", DefaultIndent)
	} else {
		data, err = s.Marshal(value)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return WrapError(err, "save_file", "cannot create parent directory")
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return WrapError(err, "save_file", "cannot write file")
	}
	return nil
}

// LoadFile reads a JSON file and returns the decoded tree.
func (s *Serializer) LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapError(err, "load_file", "cannot read file")
	}

	var out any
	if err := s.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnmarshalFile reads a JSON file and unmarshals it into v.
func (s *Serializer) UnmarshalFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapError(err, "unmarshal_file", "cannot read file")
	}
	return s.Unmarshal(data, v)
}

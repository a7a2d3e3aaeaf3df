package seed

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFiles embed.FS

// Fixture describes a folder tree and the files placed in it
type Fixture struct {
	Folders []string      `yaml:"folders"`
	Files   []FileFixture `yaml:"files"`
}

// FileFixture is one file of a fixture. Path ends in the file name.
type FileFixture struct {
	Path     string  `yaml:"path"`
	Size     *int64  `yaml:"size"`
	MimeType *string `yaml:"mimeType"`
}

// LoadFixture loads an embedded fixture by name ("default")
func LoadFixture(name string) (*Fixture, error) {
	filename := fmt.Sprintf("fixtures/%s.yaml", name)
	data, err := fixtureFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	fixture, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return fixture, nil
}

// ParseFixture decodes a fixture document. Unknown keys are rejected.
func ParseFixture(data []byte) (*Fixture, error) {
	var fixture Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fixture); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	for i, f := range fixture.Files {
		if f.Path == "" {
			return nil, fmt.Errorf("files[%d]: path is required", i)
		}
	}
	return &fixture, nil
}

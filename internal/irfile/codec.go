package irfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"bril/internal/ir"
)

var (
	// ErrInvalid wraps every decode and resolution failure.
	ErrInvalid = errors.New("invalid snapshot")
	// ErrUnknownFormat: the file extension names no known codec.
	ErrUnknownFormat = errors.New("unknown snapshot format")
)

// Format selects a codec.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	}
	return "unknown"
}

// FormatFromPath picks the codec by extension: .yaml/.yml or .mp/.msgpack.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".mp", ".msgpack":
		return FormatMsgpack, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// DecodeYAML reads a document. Unknown fields are rejected.
func DecodeYAML(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrInvalid, err)
	}
	return &doc, nil
}

func EncodeYAML(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// DecodeMsgpack reads a document. Unknown fields are rejected.
func DecodeMsgpack(r io.Reader) (*Document, error) {
	var doc Document
	dec := msgpack.NewDecoder(r)
	dec.DisallowUnknownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse msgpack: %w", ErrInvalid, err)
	}
	return &doc, nil
}

func EncodeMsgpack(w io.Writer, doc *Document) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(doc)
}

// Decode decodes data with the given codec.
func Decode(data []byte, f Format) (*Document, error) {
	switch f {
	case FormatYAML:
		return DecodeYAML(bytes.NewReader(data))
	case FormatMsgpack:
		return DecodeMsgpack(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

// Encode writes doc with the given codec.
func Encode(w io.Writer, doc *Document, f Format) error {
	switch f {
	case FormatYAML:
		return EncodeYAML(w, doc)
	case FormatMsgpack:
		return EncodeMsgpack(w, doc)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

// ReadFile reads and decodes a snapshot, returning the raw bytes too.
func ReadFile(path string) (*Document, []byte, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	doc, err := Decode(data, f)
	if err != nil {
		return nil, data, err
	}
	return doc, data, nil
}

// Load reads a snapshot and resolves it into a module. A document without a
// module name is named after the file.
func Load(path string) (*ir.Module, error) {
	doc, _, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc.Module()
}

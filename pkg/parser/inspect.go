package parser

import (
	"encoding/json"

	"github.com/docker/docker/api/types/container"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// InspectionRecord is one container document from `inspect` output.
// Fields are read by path, e.g. rec.Get("HostConfig.Privileged").Bool().
type InspectionRecord struct {
	raw []byte
}

// NewInspectionRecord wraps a single JSON object.
func NewInspectionRecord(doc []byte) (InspectionRecord, error) {
	if !gjson.ValidBytes(doc) {
		return InspectionRecord{}, errors.New("inspection record is not valid JSON")
	}
	if !gjson.ParseBytes(doc).IsObject() {
		return InspectionRecord{}, errors.New("inspection record is not a JSON object")
	}
	return InspectionRecord{raw: doc}, nil
}

// ParseInspect takes the JSON array printed by `inspect` and returns its first
// element.
func ParseInspect(output []byte) (InspectionRecord, error) {
	if !gjson.ValidBytes(output) {
		return InspectionRecord{}, errors.New("inspect output is not valid JSON")
	}
	doc := gjson.ParseBytes(output)
	if !doc.IsArray() {
		return InspectionRecord{}, errors.New("inspect output is not a JSON array")
	}
	first := doc.Get("0")
	if !first.Exists() {
		return InspectionRecord{}, errors.New("inspect output is an empty array")
	}
	return NewInspectionRecord([]byte(first.Raw))
}

// Raw returns the JSON document.
func (r InspectionRecord) Raw() []byte {
	return r.raw
}

// IsZero reports whether r holds no document.
func (r InspectionRecord) IsZero() bool {
	return len(r.raw) == 0
}

// Get looks up a gjson path inside the document.
func (r InspectionRecord) Get(path string) gjson.Result {
	return gjson.GetBytes(r.raw, path)
}

func (r InspectionRecord) ID() string {
	return r.Get("Id").String()
}

func (r InspectionRecord) Privileged() bool {
	return r.Get("HostConfig.Privileged").Bool()
}

// IPAddress returns the container's address on the default bridge network.
func (r InspectionRecord) IPAddress() string {
	return r.Get("NetworkSettings.IPAddress").String()
}

// Container decodes the document into the docker API type.
func (r InspectionRecord) Container() (*container.InspectResponse, error) {
	var resp container.InspectResponse
	if err := json.Unmarshal(r.raw, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode inspection record")
	}
	return &resp, nil
}

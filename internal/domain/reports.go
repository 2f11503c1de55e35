package domain

import (
	"fmt"
	"strings"
)

// ObjectID is a composite identifier of the form SYSTEM_OBJECTTYPE_localid,
// e.g. "APM00193712772_FILESYSTEM_fs_95".
type ObjectID string

func (o ObjectID) String() string { return string(o) }

// Parts splits the composite id into system, object type and local id.
// The local id may itself contain underscores.
func (o ObjectID) Parts() (system, objectType, localID string, err error) {
	parts := strings.SplitN(string(o), "_", 3)
	if len(parts) < 3 {
		return "", "", "", fmt.Errorf("malformed object id %q", string(o))
	}
	return parts[0], parts[1], parts[2], nil
}

// SystemDetail is the reporting backend's description of a system.
type SystemDetail struct {
	Product        string `json:"product"`
	System         string `json:"system"`
	Name           string `json:"name"`
	CloudIQEnabled bool   `json:"cloudiqEnabled"`
	CSIQEnabled    bool   `json:"csiqEnabled"`
}

// ToolLayoutResponse is one renderable tool result.
type ToolLayoutResponse struct {
	Layout Layout `json:"layout"`
	Data   any    `json:"data"`
}

// ChatLayoutResponse groups the layout responses produced by one tool call.
type ChatLayoutResponse struct {
	Responses []ToolLayoutResponse `json:"responses"`
}

package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode projects a tool call's arguments onto a typed request struct.
// Round-tripping through JSON keeps field handling identical to the wire
// protocol path and avoids per-field type assertions.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, fmt.Errorf("encode %s arguments: %w", req.Params.Name, err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("decode %s arguments: %w", req.Params.Name, err)
	}
	return result, nil
}

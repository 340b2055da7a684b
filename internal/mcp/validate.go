// ABOUTME: JSON-schema validation of tool call arguments before handlers run
// ABOUTME: Rejects wrong types, unknown enum values, and missing required fields
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"
)

// validated wraps next so calls whose arguments break the tool's input schema
// get a tool error instead of reaching the handler
func validated(tool mcp.Tool, next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	schema := gojsonschema.NewGoLoader(tool.InputSchema)
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := validateArguments(schema, request.GetArguments()); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", tool.Name, err)), nil
		}
		return next(ctx, request)
	}
}

func validateArguments(schema gojsonschema.JSONLoader, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("arguments failed validation: %s", strings.Join(details, "; "))
}

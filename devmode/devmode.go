// Package devmode provides shared configuration for development mode
// across the SDK, the MCP server and the CLI.
package devmode

// APIKey is the shared development mode API key accepted by local
// backends. This key is intentionally obvious and should never be used
// in production.
const APIKey = "LOCAL_DEV_MODE_NOT_FOR_PRODUCTION"

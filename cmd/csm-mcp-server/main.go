package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/haikentcode/csmpilot-sub000/mcp"
)

func main() {
	if err := mcp.Run(); err != nil {
		log.Error().Err(err).Msg("MCP server exited with error")
		os.Exit(1)
	}
}

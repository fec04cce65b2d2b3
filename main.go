package main

import (
	"studyhub-api/core/logger"
	"studyhub-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}

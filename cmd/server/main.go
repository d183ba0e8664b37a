package main

import (
	"github.com/parlagraph/parlagraph/internal/server"
	"github.com/parlagraph/parlagraph/internal/util"
	"github.com/parlagraph/parlagraph/pkg/logger"
	"github.com/parlagraph/parlagraph/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleBackend(console.ConsoleBackendParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}

package main

import (
	"github.com/beevm/beevm/infrastructure/logger"
)

var log = logger.RegisterSubSystem("BVM")

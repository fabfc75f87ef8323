package main

import (
	"github.com/kaspanet/chaintracker/infrastructure/logger"
	"github.com/kaspanet/chaintracker/util/panics"
)

var (
	log   = logger.RegisterSubSystem("CTRK")
	spawn = panics.GoroutineWrapperFunc(log)
)

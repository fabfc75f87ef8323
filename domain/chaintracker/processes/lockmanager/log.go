package lockmanager

import "github.com/kaspanet/chaintracker/infrastructure/logger"

var log = logger.RegisterSubSystem("LOCK")

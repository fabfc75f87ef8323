package chaintracker

import "github.com/kaspanet/chaintracker/infrastructure/logger"

var log = logger.RegisterSubSystem("CHTR")

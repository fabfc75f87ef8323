package changebroadcaster

import "github.com/kaspanet/chaintracker/infrastructure/logger"

var log = logger.RegisterSubSystem("CHBR")

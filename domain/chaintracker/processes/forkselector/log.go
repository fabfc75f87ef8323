package forkselector

import "github.com/kaspanet/chaintracker/infrastructure/logger"

var log = logger.RegisterSubSystem("FSEL")

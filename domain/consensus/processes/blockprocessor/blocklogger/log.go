package blocklogger

import (
	"github.com/weightdag/dagd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("BDAG")

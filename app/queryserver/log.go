package queryserver

import (
	"github.com/weightdag/dagd/infrastructure/logger"
	"github.com/weightdag/dagd/util/panics"
)

var log = logger.RegisterSubSystem("QRYS")
var spawn = panics.GoroutineWrapperFunc(log)

package notifications

import (
	"github.com/weightdag/dagd/infrastructure/logger"
	"github.com/weightdag/dagd/util/panics"
)

var log = logger.RegisterSubSystem("NTFN")
var spawn = panics.GoroutineWrapperFunc(log)

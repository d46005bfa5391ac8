package app

import (
	"github.com/weightdag/dagd/infrastructure/logger"
	"github.com/weightdag/dagd/util/panics"
)

var log = logger.RegisterSubSystem("DAGD")
var spawn = panics.GoroutineWrapperFunc(log)

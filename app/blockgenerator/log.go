package blockgenerator

import (
	"github.com/weightdag/dagd/infrastructure/logger"
	"github.com/weightdag/dagd/util/panics"
)

var log = logger.RegisterSubSystem("BGEN")
var spawn = panics.GoroutineWrapperFunc(log)

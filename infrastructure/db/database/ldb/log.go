package ldb

import "github.com/weightdag/dagd/infrastructure/logger"

var log = logger.RegisterSubSystem("KVDB")

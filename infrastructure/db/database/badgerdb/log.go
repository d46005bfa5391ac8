package badgerdb

import (
	"strings"

	"github.com/weightdag/dagd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("KVDB")

// badgerLogger routes badger's internal logging into the KVDB subsystem.
// Badger's own info level is chatty, so it is demoted to debug.
type badgerLogger struct {
	log *logger.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Errorf(strings.TrimSuffix(format, "\n"), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warnf(strings.TrimSuffix(format, "\n"), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debugf(strings.TrimSuffix(format, "\n"), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Tracef(strings.TrimSuffix(format, "\n"), args...)
}

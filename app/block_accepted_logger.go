package app

import (
	"sync/atomic"

	"github.com/weightdag/dagd/domain/consensus"
	"github.com/weightdag/dagd/domain/consensus/notifications"
)

// blockAcceptedLogger follows the BlockAccepted notifications of the
// consensus and logs each one at debug level
type blockAcceptedLogger struct {
	subscription *notifications.Subscription
	done         chan struct{}
	logged       uint64
}

func newBlockAcceptedLogger(consensusInstance consensus.Consensus) (*blockAcceptedLogger, error) {
	subscription, err := consensusInstance.Subscribe()
	if err != nil {
		return nil, err
	}
	acceptedLogger := &blockAcceptedLogger{
		subscription: subscription,
		done:         make(chan struct{}),
	}
	spawn("blockAcceptedLogger.run", acceptedLogger.run)
	return acceptedLogger, nil
}

func (l *blockAcceptedLogger) run() {
	defer close(l.done)

	for notification := range l.subscription.Notifications() {
		if notification.HasTopoHeight {
			log.Debugf("Accepted block %s at topo height %d (%s)",
				notification.Hash, notification.TopoHeight, notification.Classification)
		} else {
			log.Debugf("Accepted block %s without a topo height (%s)",
				notification.Hash, notification.Classification)
		}
		atomic.AddUint64(&l.logged, 1)
	}
}

func (l *blockAcceptedLogger) loggedCount() uint64 {
	return atomic.LoadUint64(&l.logged)
}

// stop unsubscribes and waits for the loop to return
func (l *blockAcceptedLogger) stop() {
	l.subscription.Close()
	<-l.done
}

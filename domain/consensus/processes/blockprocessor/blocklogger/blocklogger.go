package blocklogger

import (
	"sync"
	"time"

	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/util/mstime"
)

var (
	mtx               sync.Mutex
	receivedLogBlocks int64
	receivedLogTx     int64
	lastBlockLogTime  = time.Now()
)

// LogBlock logs a new block height as an information message to show
// progress to the user. In order to prevent spam, it limits logging to one
// message every 10 seconds with duration and totals included.
func LogBlock(block *externalapi.DomainBlock) {
	mtx.Lock()
	defer mtx.Unlock()

	receivedLogBlocks++
	receivedLogTx += int64(len(block.Transactions))

	now := time.Now()
	duration := now.Sub(lastBlockLogTime)
	if duration < time.Second*10 {
		return
	}

	// Truncate the duration to 10s of milliseconds.
	tDuration := duration.Round(10 * time.Millisecond)

	blockStr := "blocks"
	if receivedLogBlocks == 1 {
		blockStr = "block"
	}
	txStr := "transactions"
	if receivedLogTx == 1 {
		txStr = "transaction"
	}

	log.Infof("Processed %d %s in the last %s (%d %s, height %d, %s)",
		receivedLogBlocks, blockStr, tDuration, receivedLogTx, txStr,
		block.Header.Height, mstime.UnixMilliToTime(block.Header.TimeInMilliseconds))

	receivedLogBlocks = 0
	receivedLogTx = 0
	lastBlockLogTime = now
}

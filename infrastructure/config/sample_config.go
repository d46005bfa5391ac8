package config

const sampleConfig = `[Application Options]

; ------------------------------------------------------------------------------
; Data settings
; ------------------------------------------------------------------------------

; The directory to store data such as the DAG and the logs. The default is
; ~/.dagd on POSIX OSes, $LOCALAPPDATA/Dagd on Windows, and
; ~/Library/Application Support/Dagd on Mac OS.
; appdir=~/.dagd

; Database engine for the DAG store. Supported engines are leveldb and badger.
; dbtype=leveldb

; Size of the LevelDB block cache in MiB.
; dbcache=256

; ------------------------------------------------------------------------------
; Network settings
; ------------------------------------------------------------------------------

; Use testnet.
; testnet=1

; Use devnet. Required by override-dag-params-file.
; devnet=1

; ------------------------------------------------------------------------------
; Query server
; ------------------------------------------------------------------------------

; Interface/port of the read-only HTTP query server. The default is
; 127.0.0.1 on the default query port of the network.
; querylisten=127.0.0.1:18080

; Disable the query server.
; noquery=1

; ------------------------------------------------------------------------------
; Mempool
; ------------------------------------------------------------------------------

; Maximum number of transactions kept in the mempool.
; maxmempooltx=100000

; Maximum number of mempool transactions offered to a block template.
; maxblocktx=1000

; Minimum fee, in atomic units, for a transaction to enter the mempool.
; mintxfee=0

; ------------------------------------------------------------------------------
; Block generation
; ------------------------------------------------------------------------------

; Generate blocks on top of the local DAG, crediting miningaddr.
; generate=1
; miningaddr=

; Time between generated blocks. Defaults to the target block time.
; generateinterval=15s

; ------------------------------------------------------------------------------
; Debug
; ------------------------------------------------------------------------------

; Debug logging level.
; Valid levels are {trace, debug, info, warn, error, critical}
; You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set
; log level for individual subsystems. Use dagd --debuglevel=show to list
; available subsystems.
; debuglevel=info
`

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nspcc-dev/bancor-contract/eventlog"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	txHash := flag.String("tx", "", "Hash of the transaction (LE, with or without 0x prefix)")
	debug := flag.Bool("debug", false, "Log debug messages to stderr")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *txHash == "":
		log.Fatal("missing transaction hash")
	}

	h, err := util.Uint256DecodeStringLE(trimHexPrefix(*txHash))
	if err != nil {
		log.Fatal(fmt.Errorf("decode transaction hash: %w", err))
	}

	logger := zap.NewNop()
	if *debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatal(fmt.Errorf("init logger: %w", err))
		}
	}

	err = _print(*neoRPCEndpoint, h, logger)
	if err != nil {
		log.Fatal(err)
	}
}

func _print(neoBlockchainRPCEndpoint string, tx util.Uint256, logger *zap.Logger) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	alog, err := b.applicationLog(tx)
	if err != nil {
		return err
	}

	recs, err := eventlog.New(logger, eventlog.NewRPCPrecisions(b.invoker)).Project(alog)
	if err != nil {
		return fmt.Errorf("project application log: %w", err)
	}

	return eventlog.Write(os.Stdout, recs)
}

func trimHexPrefix(s string) string {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

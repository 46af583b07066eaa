package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nspcc-dev/bancor-contract/contracts"
	"github.com/nspcc-dev/bancor-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// passwordEnv is an environment variable with the wallet account password.
const passwordEnv = "AMM_WALLET_PASSWORD"

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	walletPath := flag.String("wallet", "", "Path to the NEP-6 wallet of the owner")
	accAddress := flag.String("address", "", "Owner account address (default account of the wallet if empty)")
	contractsDir := flag.String("contracts", "", "Directory with compiled token, converter, network and bridge contracts")
	configPath := flag.String("config", "", "Path to the YAML deployment configuration")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *walletPath == "":
		log.Fatal("missing wallet")
	case *contractsDir == "":
		log.Fatal("missing contracts directory")
	case *configPath == "":
		log.Fatal("missing deployment configuration")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(fmt.Errorf("init logger: %w", err))
	}
	defer func() { _ = logger.Sync() }()

	f, err := os.Open(*configPath)
	if err != nil {
		log.Fatal(fmt.Errorf("open config: %w", err))
	}
	cfg, err := deploy.ReadConfig(f)
	_ = f.Close()
	if err != nil {
		log.Fatal(fmt.Errorf("read config: %w", err))
	}

	suite, err := contracts.ReadSuite(os.DirFS(*contractsDir))
	if err != nil {
		log.Fatal(fmt.Errorf("read contracts: %w", err))
	}

	acc, err := openAccount(*walletPath, *accAddress, os.Getenv(passwordEnv))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	c, err := rpcclient.New(ctx, *neoRPCEndpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		log.Fatal(fmt.Errorf("RPC client dial: %w", err))
	}
	defer c.Close()

	err = c.Init()
	if err != nil {
		log.Fatal(fmt.Errorf("RPC client init: %w", err))
	}

	act, err := actor.NewSimple(c, acc)
	if err != nil {
		log.Fatal(fmt.Errorf("init actor: %w", err))
	}

	res, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:    logger,
		Actor:     act,
		Contracts: suite,
		Config:    cfg,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("converter:", address.Uint160ToString(res.Converter))
	fmt.Println("network:", address.Uint160ToString(res.Network))
	fmt.Println("bridge:", address.Uint160ToString(res.Bridge))
	for code, h := range res.Tokens {
		fmt.Printf("pool token %s: %s\n", code, address.Uint160ToString(h))
	}
}

func openAccount(walletPath, addr, password string) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(walletPath)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	var acc *wallet.Account
	if addr == "" {
		if len(w.Accounts) == 0 {
			return nil, fmt.Errorf("no accounts in wallet %s", walletPath)
		}
		acc = w.Accounts[0]
		for _, a := range w.Accounts {
			if a.Default {
				acc = a
				break
			}
		}
	} else {
		h, err := address.StringToUint160(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address: %w", err)
		}
		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is not in the wallet", addr)
		}
	}

	err = acc.Decrypt(password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

/*
Package deploy deploys AMM contracts to the Neo blockchain.

Deploy puts the converter, network and bridge contracts on chain, creates
configured pools with their pool tokens and reserves, links the bridge and
registers the converter in the network. The transaction sender becomes the
owner of the network and every pool.

Pools are left disabled, so initial reserve balances can be sent by the owner
with `setup;<POOL>` transfers before the pool is enabled.
*/
package deploy

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/bancor-contract/contracts"
	"github.com/nspcc-dev/bancor-contract/rpc/converter"
	"github.com/nspcc-dev/bancor-contract/rpc/network"
	rpctoken "github.com/nspcc-dev/bancor-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"go.uber.org/zap"
)

// Actor groups functions needed to compose, send and await transactions.
type Actor interface {
	network.Actor
	converter.Actor
	management.Actor

	// Sender returns the account signing transactions. It is the owner of
	// the deployed contracts.
	Sender() util.Uint160
	// Wait awaits the transaction acceptance, see actor.Actor.
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Prm groups deployment parameters.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	Actor     Actor
	Contracts contracts.Suite
	Config    Config
}

// Result contains script hashes of the deployed contracts.
type Result struct {
	Converter util.Uint160
	Network   util.Uint160
	Bridge    util.Uint160
	// Pool tokens by pool code.
	Tokens map[string]util.Uint160
}

// ErrFault is returned when the deployment transaction is not executed
// successfully.
var ErrFault = errors.New("transaction failed")

// ErrIssuerMismatch is returned when the deployed pool token is not issued by
// the converter.
var ErrIssuerMismatch = errors.New("pool token issuer mismatch")

// Deploy deploys and configures AMM contracts. Every transaction is awaited
// before the next one is sent.
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res = Result{Tokens: make(map[string]util.Uint160)}

	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}
	err := prm.Config.Validate()
	if err != nil {
		return res, fmt.Errorf("invalid config: %w", err)
	}

	reporters := make([]any, 0, len(prm.Config.Reporters))
	for i := range prm.Config.Reporters {
		pub, err := keys.NewPublicKeyFromString(prm.Config.Reporters[i])
		if err != nil {
			return res, fmt.Errorf("reporter #%d: %w", i, err)
		}
		reporters = append(reporters, pub.Bytes())
	}

	d := &deployer{ctx: ctx, prm: prm, mgmt: management.New(prm.Actor)}
	owner := prm.Actor.Sender()

	res.Converter, err = d.deploy(prm.Contracts.Converter, "", nil)
	if err != nil {
		return res, fmt.Errorf("deploy converter: %w", err)
	}
	prm.Logger.Info("Converter contract successfully deployed", zap.Stringer("address", res.Converter))

	res.Network, err = d.deploy(prm.Contracts.Network, "", []any{owner})
	if err != nil {
		return res, fmt.Errorf("deploy network: %w", err)
	}
	prm.Logger.Info("Network contract successfully deployed", zap.Stringer("address", res.Network))

	res.Bridge, err = d.deploy(prm.Contracts.Bridge, "", []any{res.Network, reporters})
	if err != nil {
		return res, fmt.Errorf("deploy bridge: %w", err)
	}
	prm.Logger.Info("Bridge contract successfully deployed", zap.Stringer("address", res.Bridge))

	net := network.New(prm.Actor, res.Network)
	txHash, vub, err := net.SetBridge(res.Bridge)
	err = d.await("set bridge", txHash, vub, err)
	if err != nil {
		return res, err
	}
	if fee := prm.Config.MaxAffiliateFee; fee != 0 {
		txHash, vub, err = net.SetMaxAffiliateFee(big.NewInt(int64(fee)))
		err = d.await("set max affiliate fee", txHash, vub, err)
		if err != nil {
			return res, err
		}
	}

	conv := converter.New(prm.Actor, res.Converter)
	for _, p := range prm.Config.Pools {
		token, err := d.pool(conv, res.Converter, p)
		if err != nil {
			return res, fmt.Errorf("pool %s: %w", p.Code, err)
		}
		res.Tokens[p.Code] = token
	}

	c := prm.Config.Converter
	txHash, vub, err = net.SetConverter(c.Name, res.Converter, c.DefaultPool)
	err = d.await("register converter", txHash, vub, err)
	if err != nil {
		return res, err
	}
	prm.Logger.Info("converter registered in the network",
		zap.String("name", c.Name), zap.String("default pool", c.DefaultPool))

	return res, nil
}

type deployer struct {
	ctx  context.Context
	prm  Prm
	mgmt *management.Contract
}

// pool deploys pool token issued by the converter, creates the pool and adds
// its reserves.
func (d *deployer) pool(conv *converter.Contract, convHash util.Uint160, p PoolConfig) (util.Uint160, error) {
	supply, err := p.initialSupply()
	if err != nil {
		return util.Uint160{}, err
	}

	// Every pool token is a separate instance of the same NEF, manifest
	// name makes its hash unique.
	name := d.prm.Contracts.Token.Manifest.Name + " " + p.Code
	token, err := d.deploy(d.prm.Contracts.Token, name, []any{p.Code, p.Decimals, convHash})
	if err != nil {
		return token, fmt.Errorf("deploy pool token: %w", err)
	}
	d.prm.Logger.Info("pool token successfully deployed",
		zap.String("pool", p.Code), zap.Stringer("address", token))

	issuer, err := rpctoken.NewReader(d.prm.Actor, token).Issuer()
	if err != nil {
		return token, fmt.Errorf("read pool token issuer: %w", err)
	}
	if !issuer.Equals(convHash) {
		return token, fmt.Errorf("%w: pool token %s is issued by %s", ErrIssuerMismatch, p.Code, issuer.StringLE())
	}

	txHash, vub, err := conv.Init(d.prm.Actor.Sender(), token, supply,
		big.NewInt(int64(p.MaxFee)), big.NewInt(int64(p.Fee)))
	err = d.await("init pool", txHash, vub, err)
	if err != nil {
		return token, err
	}

	for _, r := range p.Reserves {
		h, err := r.token()
		if err != nil {
			return token, err
		}
		txHash, vub, err := conv.SetReserve(p.Code, h, r.Symbol, big.NewInt(int64(r.Ratio)), r.SaleEnabled)
		err = d.await("set reserve "+r.Symbol, txHash, vub, err)
		if err != nil {
			return token, err
		}
	}

	d.prm.Logger.Info("pool successfully created",
		zap.String("pool", p.Code), zap.Int("reserves", len(p.Reserves)))

	return token, nil
}

// deploy deploys the contract, non-empty name overrides manifest name.
func (d *deployer) deploy(c contracts.Contract, name string, data any) (util.Uint160, error) {
	m := c.Manifest
	if name != "" {
		m.Name = name
	}
	h := state.CreateContractHash(d.prm.Actor.Sender(), c.NEF.Checksum, m.Name)

	d.prm.Logger.Info("deploying contract...", zap.String("name", m.Name), zap.Stringer("address", h))

	txHash, vub, err := d.mgmt.Deploy(&c.NEF, &m, data)
	return h, d.await("deploy "+m.Name, txHash, vub, err)
}

// await waits for the transaction to be accepted and checks its result.
func (d *deployer) await(op string, txHash util.Uint256, vub uint32, err error) error {
	if err == nil {
		err = d.ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := d.prm.Actor.Wait(txHash, vub, nil)
	if err != nil {
		return fmt.Errorf("%s: wait for transaction %s: %w", op, txHash.StringLE(), err)
	}
	if res.VMState != vmstate.Halt {
		return fmt.Errorf("%s: %w: %s (%s)", op, ErrFault, res.FaultException, txHash.StringLE())
	}

	d.prm.Logger.Debug("transaction accepted", zap.String("op", op), zap.Stringer("tx", txHash))
	return nil
}

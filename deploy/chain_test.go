package deploy

import (
	"context"
	"encoding/hex"
	"errors"
	"path"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/bancor-contract/contracts"
	"github.com/nspcc-dev/bancor-contract/rpc/converter"
	"github.com/nspcc-dev/bancor-contract/rpc/network"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const contractsDir = "../contracts"

var errUnsupported = errors.New("not supported by the test actor")

// chainActor sends every transaction signed by the committee as a separate
// block of the test chain.
type chainActor struct {
	t *testing.T
	e *neotest.Executor
}

func (a *chainActor) Sender() util.Uint160 {
	return a.e.CommitteeHash
}

func (a *chainActor) Call(contract util.Uint160, method string, params ...any) (*result.Invoke, error) {
	script, err := smartcontract.CreateCallScript(contract, method, params...)
	if err != nil {
		return nil, err
	}

	res := &result.Invoke{State: vmstate.Halt.String(), Script: script}
	s, err := a.e.CommitteeInvoker(contract).TestInvokeScript(a.t, script, []neotest.Signer{a.e.Committee})
	if err != nil {
		res.State = vmstate.Fault.String()
		res.FaultException = err.Error()
		return res, nil
	}
	res.Stack = s.ToArray()
	return res, nil
}

func (a *chainActor) SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error) {
	script, err := smartcontract.CreateCallScript(contract, method, params...)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return a.SendRun(script)
}

func (a *chainActor) SendRun(script []byte) (util.Uint256, uint32, error) {
	tx := a.e.PrepareInvocation(a.t, script, []neotest.Signer{a.e.Committee})
	a.e.AddNewBlock(a.t, tx)
	return tx.Hash(), tx.ValidUntilBlock, nil
}

func (a *chainActor) Wait(h util.Uint256, _ uint32, err error) (*state.AppExecResult, error) {
	if err != nil {
		return nil, err
	}
	return a.e.GetTxExecResult(a.t, h), nil
}

func (a *chainActor) CallAndExpandIterator(util.Uint160, string, int, ...any) (*result.Invoke, error) {
	return nil, errUnsupported
}

func (a *chainActor) TerminateSession(uuid.UUID) error {
	return errUnsupported
}

func (a *chainActor) TraverseIterator(uuid.UUID, *result.Iterator, int) ([]stackitem.Item, error) {
	return nil, errUnsupported
}

func (a *chainActor) MakeCall(util.Uint160, string, ...any) (*transaction.Transaction, error) {
	return nil, errUnsupported
}

func (a *chainActor) MakeRun([]byte) (*transaction.Transaction, error) {
	return nil, errUnsupported
}

func (a *chainActor) MakeUnsignedCall(util.Uint160, string, []transaction.Attribute, ...any) (*transaction.Transaction, error) {
	return nil, errUnsupported
}

func (a *chainActor) MakeUnsignedRun([]byte, []transaction.Attribute) (*transaction.Transaction, error) {
	return nil, errUnsupported
}

func compileSuite(t *testing.T, e *neotest.Executor) contracts.Suite {
	compile := func(name string) contracts.Contract {
		dir := path.Join(contractsDir, name)
		c := neotest.CompileFile(t, e.CommitteeHash, dir, path.Join(dir, "config.yml"))
		return contracts.Contract{NEF: *c.NEF, Manifest: *c.Manifest}
	}

	return contracts.Suite{
		Token:     compile("token"),
		Converter: compile("converter"),
		Network:   compile("network"),
		Bridge:    compile("bridge"),
	}
}

// deployReserveToken deploys a token instance issued by the committee.
func deployReserveToken(t *testing.T, e *neotest.Executor, s contracts.Suite, code string) util.Uint160 {
	m := s.Token.Manifest
	m.Name += " " + code
	c := &neotest.Contract{
		Hash:     state.CreateContractHash(e.CommitteeHash, s.Token.NEF.Checksum, m.Name),
		NEF:      &s.Token.NEF,
		Manifest: &m,
	}
	e.DeployContract(t, c, []any{code, 8, e.CommitteeHash})
	return c.Hash
}

func chainConfig(t *testing.T, tka, tkb util.Uint160) Config {
	k, err := keys.NewPrivateKey()
	require.NoError(t, err)

	return Config{
		Reporters:       []string{hex.EncodeToString(k.PublicKey().Bytes())},
		MaxAffiliateFee: 30_000,
		Converter:       ConverterConfig{Name: "bancor", DefaultPool: "POOL"},
		Pools: []PoolConfig{{
			Code:          "POOL",
			Decimals:      4,
			InitialSupply: "1000",
			MaxFee:        30_000,
			Fee:           3_000,
			Reserves: []ReserveConfig{
				{Token: address.Uint160ToString(tka), Symbol: "8,TKA", Ratio: 500_000, SaleEnabled: true},
				{Token: "0x" + tkb.StringLE(), Symbol: "8,TKB", Ratio: 500_000},
			},
		}},
	}
}

func TestDeploy(t *testing.T) {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)
	a := &chainActor{t: t, e: e}

	suite := compileSuite(t, e)
	tka := deployReserveToken(t, e, suite, "TKA")
	tkb := deployReserveToken(t, e, suite, "TKB")

	res, err := Deploy(context.Background(), Prm{
		Logger:    zaptest.NewLogger(t),
		Actor:     a,
		Contracts: suite,
		Config:    chainConfig(t, tka, tkb),
	})
	require.NoError(t, err)

	owner := e.CommitteeHash
	require.Equal(t, state.CreateContractHash(owner, suite.Converter.NEF.Checksum, suite.Converter.Manifest.Name), res.Converter)
	require.Equal(t, state.CreateContractHash(owner, suite.Network.NEF.Checksum, suite.Network.Manifest.Name), res.Network)
	require.Equal(t, state.CreateContractHash(owner, suite.Bridge.NEF.Checksum, suite.Bridge.Manifest.Name), res.Bridge)
	require.Len(t, res.Tokens, 1)
	require.Equal(t, state.CreateContractHash(owner, suite.Token.NEF.Checksum, suite.Token.Manifest.Name+" POOL"), res.Tokens["POOL"])

	net := network.NewReader(a, res.Network)
	bridge, err := net.Bridge()
	require.NoError(t, err)
	require.Equal(t, res.Bridge, bridge)

	conv, err := net.GetConverter("bancor")
	require.NoError(t, err)
	require.Equal(t, res.Converter, conv.Hash)
	require.Equal(t, "POOL", conv.DefaultPool)

	cr := converter.NewReader(a, res.Converter)
	st, err := cr.GetSettings("POOL")
	require.NoError(t, err)
	require.Equal(t, owner, st.Owner)
	require.Equal(t, res.Tokens["POOL"], st.Token)
	require.Equal(t, int64(4), st.Precision.Int64())
	require.Equal(t, int64(3_000), st.Fee.Int64())
	require.False(t, st.Enabled)

	for _, r := range []struct {
		code string
		hash util.Uint160
		sale bool
	}{{"TKA", tka, true}, {"TKB", tkb, false}} {
		reserve, err := cr.GetReserve("POOL", r.code)
		require.NoError(t, err)
		require.Equal(t, r.hash, reserve.Token)
		require.Equal(t, int64(500_000), reserve.Ratio.Int64())
		require.Zero(t, reserve.Balance.Sign())
		require.Equal(t, r.sale, reserve.SaleEnabled)
	}
}

func TestDeployFault(t *testing.T) {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)

	suite := compileSuite(t, e)
	tka := deployReserveToken(t, e, suite, "TKA")
	tkb := deployReserveToken(t, e, suite, "TKB")

	cfg := chainConfig(t, tka, tkb)
	// Valid symbol of the other token is rejected by the converter only.
	cfg.Pools[0].Reserves[1].Symbol = "8,TKC"

	_, err := Deploy(context.Background(), Prm{
		Logger:    zaptest.NewLogger(t),
		Actor:     &chainActor{t: t, e: e},
		Contracts: suite,
		Config:    cfg,
	})
	require.ErrorIs(t, err, ErrFault)
}

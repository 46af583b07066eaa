package tests

import (
	"path"
	"sort"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
)

const (
	tokenPath     = "../contracts/token"
	converterPath = "../contracts/converter"
	networkPath   = "../contracts/network"
	bridgePath    = "../contracts/bridge"
	formulaPath   = "../internal/testcontracts/formula"
)

// Default pool of the test environment: 1000.0000 POOL tokens backed by
// 1000.00000000 TKA and 1000.00000000 TKB with 50% ratio each.
const (
	poolCode        = "POOL"
	poolDecimals    = 4
	poolSupply      = 1000_0000
	poolMaxFee      = 10_000
	reserveDecimals = 8
	reserveBalance  = 1000_0000_0000
	reserveRatio    = 500_000

	poolSymbol = "4,POOL"
	tkaSymbol  = "8,TKA"
	tkbSymbol  = "8,TKB"

	converterName = "amm"

	fundMemo      = "fund;" + poolCode
	liquidateMemo = "liquidate;" + poolCode
)

func compileContract(t testing.TB, e *neotest.Executor, ctrPath string) *neotest.Contract {
	return neotest.CompileFile(t, e.CommitteeHash, ctrPath, path.Join(ctrPath, "config.yml"))
}

// deployToken deploys a new instance of the token contract. Every instance
// gets its own manifest name, so the same NEF can be deployed many times.
func deployToken(t testing.TB, e *neotest.Executor, code string, decimals int64, issuer util.Uint160) util.Uint160 {
	c := compileContract(t, e, tokenPath)

	m := *c.Manifest
	m.Name = c.Manifest.Name + " " + code
	inst := &neotest.Contract{
		Hash:     state.CreateContractHash(e.CommitteeHash, c.NEF.Checksum, m.Name),
		NEF:      c.NEF,
		Manifest: &m,
	}

	e.DeployContract(t, inst, []any{code, decimals, issuer})
	return inst.Hash
}

func deployConverterContract(t testing.TB, e *neotest.Executor) util.Uint160 {
	c := compileContract(t, e, converterPath)
	e.DeployContract(t, c, nil)
	return c.Hash
}

func deployNetworkContract(t testing.TB, e *neotest.Executor, owner util.Uint160) util.Uint160 {
	c := compileContract(t, e, networkPath)
	e.DeployContract(t, c, []any{owner})
	return c.Hash
}

func deployBridgeContract(t testing.TB, e *neotest.Executor, network util.Uint160, pubs keys.PublicKeys) util.Uint160 {
	arr := make([]any, len(pubs))
	for i := range pubs {
		arr[i] = pubs[i].Bytes()
	}

	c := compileContract(t, e, bridgePath)
	e.DeployContract(t, c, []any{network, arr})
	return c.Hash
}

// newReporters returns multisignature signer of n new accounts with enough
// GAS to pay for transactions.
func newReporters(t *testing.T, e *neotest.Executor, n int) (neotest.Signer, keys.PublicKeys) {
	accounts := make([]*wallet.Account, n)
	for i := 0; i < n; i++ {
		acc, err := wallet.NewAccount()
		require.NoError(t, err)

		accounts[i] = acc
	}

	sort.Slice(accounts, func(i, j int) bool {
		p1 := accounts[i].PrivateKey().PublicKey()
		p2 := accounts[j].PrivateKey().PublicKey()
		return p1.Cmp(p2) == -1
	})

	pubs := make(keys.PublicKeys, n)
	for i := range accounts {
		pubs[i] = accounts[i].PrivateKey().PublicKey()
	}

	m := smartcontract.GetMajorityHonestNodeCount(len(accounts))
	for i := range accounts {
		require.NoError(t, accounts[i].ConvertMultisig(m, pubs.Copy()))
	}

	reporters := neotest.NewMultiSigner(accounts...)

	gasHash, err := e.Chain.GetNativeContractScriptHash(nativenames.Gas)
	require.NoError(t, err)

	vc := e.CommitteeInvoker(gasHash).WithSigners(e.Validator)
	vc.Invoke(t, true, "transfer",
		e.Validator.ScriptHash(), reporters.ScriptHash(),
		int64(10_0000_0000), nil)

	return reporters, pubs
}

// amm is a test environment with a converter hosting the default pool and
// the network contract routing through it.
type amm struct {
	e *neotest.Executor

	converter util.Uint160
	network   util.Uint160
	bridge    util.Uint160

	pool util.Uint160
	tka  util.Uint160
	tkb  util.Uint160
}

func newAMM(t *testing.T) *amm {
	e := newExecutor(t)
	a := &amm{e: e}

	a.converter = deployConverterContract(t, e)
	a.pool = deployToken(t, e, poolCode, poolDecimals, a.converter)
	a.tka = deployToken(t, e, "TKA", reserveDecimals, e.CommitteeHash)
	a.tkb = deployToken(t, e, "TKB", reserveDecimals, e.CommitteeHash)

	c := e.CommitteeInvoker(a.converter)
	c.Invoke(t, stackitem.Null{}, "init",
		e.CommitteeHash, a.pool, int64(poolSupply), int64(poolMaxFee), int64(0))
	c.Invoke(t, stackitem.Null{}, "setReserve", poolCode, a.tka, tkaSymbol, int64(reserveRatio), true)
	c.Invoke(t, stackitem.Null{}, "setReserve", poolCode, a.tkb, tkbSymbol, int64(reserveRatio), true)

	for _, token := range []util.Uint160{a.tka, a.tkb} {
		a.mint(t, token, e.CommitteeHash, reserveBalance)
		e.CommitteeInvoker(token).Invoke(t, true, "transfer",
			e.CommitteeHash, a.converter, int64(reserveBalance), "setup;"+poolCode)
	}
	c.Invoke(t, stackitem.Null{}, "updateSettings", poolCode, int64(0), true, true, false)

	a.network = deployNetworkContract(t, e, e.CommitteeHash)
	e.CommitteeInvoker(a.network).Invoke(t, stackitem.Null{}, "setConverter",
		converterName, a.converter, poolCode)

	return a
}

// withBridge deploys the bridge with n reporters and sets it in the network
// contract.
func (a *amm) withBridge(t *testing.T, n int) neotest.Signer {
	reporters, pubs := newReporters(t, a.e, n)
	a.bridge = deployBridgeContract(t, a.e, a.network, pubs)
	a.e.CommitteeInvoker(a.network).Invoke(t, stackitem.Null{}, "setBridge", a.bridge)
	return reporters
}

// newUser returns an account holding the given amounts of the reserve
// tokens.
func (a *amm) newUser(t *testing.T, tka, tkb int64) neotest.Signer {
	acc := a.e.NewAccount(t)
	if tka > 0 {
		a.mint(t, a.tka, acc.ScriptHash(), tka)
	}
	if tkb > 0 {
		a.mint(t, a.tkb, acc.ScriptHash(), tkb)
	}
	return acc
}

// mint issues reserve tokens, committee is their issuer.
func (a *amm) mint(t testing.TB, token, to util.Uint160, amount int64) {
	a.e.CommitteeInvoker(token).Invoke(t, stackitem.Null{}, "mint", to, amount)
}

// committeeConverter returns converter invoker signed by the pool owner.
func (a *amm) committeeConverter() *neotest.ContractInvoker {
	return a.e.CommitteeInvoker(a.converter)
}

func (a *amm) userConverter(user neotest.Signer) *neotest.ContractInvoker {
	return a.e.NewInvoker(a.converter, user)
}

// deposit transfers amount of the token to the converter pending deposit of
// the signer.
func (a *amm) deposit(t testing.TB, signer neotest.Signer, token util.Uint160, amount int64) {
	a.e.NewInvoker(token, signer).Invoke(t, true, "transfer",
		signer.ScriptHash(), a.converter, amount, fundMemo)
}

package tests

import (
	"testing"

	"github.com/nspcc-dev/bancor-contract/common"
	"github.com/nspcc-dev/bancor-contract/contracts/token"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func newTokenInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	return e.CommitteeInvoker(deployToken(t, e, "TKA", 8, e.CommitteeHash))
}

func TestTokenGeneric(t *testing.T) {
	c := newTokenInvoker(t)

	c.Invoke(t, "TKA", "symbol")
	require.Equal(t, int64(8), testInvokeInt(t, c, "decimals").Int64())
	require.Equal(t, int64(0), testInvokeInt(t, c, "totalSupply").Int64())

	s, err := c.TestInvoke(t, "issuer")
	require.NoError(t, err)

	issuer, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, c.CommitteeHash.BytesBE(), issuer)
}

func TestTokenDeploy(t *testing.T) {
	e := newExecutor(t)
	c := compileContract(t, e, tokenPath)

	e.DeployContractCheckFAULT(t, c, []any{"tka", int64(8), e.CommitteeHash}, common.ErrInvalidSymbol)
	e.DeployContractCheckFAULT(t, c, []any{"TKA", int64(19), e.CommitteeHash}, "invalid decimals")
	e.DeployContractCheckFAULT(t, c, []any{"TKA", int64(8), []byte{1, 2, 3}}, "incorrect length of issuer script hash")
}

func TestTokenMintBurn(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.InvokeFail(t, token.ErrNotIssuer, "mint", acc.ScriptHash(), int64(10))
	c.InvokeFail(t, common.ErrNonPositiveAmount, "mint", acc.ScriptHash(), int64(0))

	c.Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), int64(10))
	require.Equal(t, int64(10), testInvokeInt(t, c, "balanceOf", acc.ScriptHash()).Int64())
	require.Equal(t, int64(10), testInvokeInt(t, c, "totalSupply").Int64())

	cAcc.InvokeFail(t, token.ErrNotIssuer, "burn", acc.ScriptHash(), int64(1))
	c.InvokeFail(t, common.ErrInsufficientBalance, "burn", acc.ScriptHash(), int64(11))

	c.Invoke(t, stackitem.Null{}, "burn", acc.ScriptHash(), int64(4))
	require.Equal(t, int64(6), testInvokeInt(t, c, "balanceOf", acc.ScriptHash()).Int64())
	require.Equal(t, int64(6), testInvokeInt(t, c, "totalSupply").Int64())
}

func TestTokenTransfer(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	other := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	c.Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), int64(10))

	// Not witnessed by the sender.
	c.Invoke(t, false, "transfer", acc.ScriptHash(), other.ScriptHash(), int64(1), nil)
	// Not enough tokens.
	cAcc.Invoke(t, false, "transfer", acc.ScriptHash(), other.ScriptHash(), int64(11), nil)
	cAcc.InvokeFail(t, "negative amount", "transfer", acc.ScriptHash(), other.ScriptHash(), int64(-1), nil)

	cAcc.Invoke(t, true, "transfer", acc.ScriptHash(), other.ScriptHash(), int64(3), nil)
	require.Equal(t, int64(7), testInvokeInt(t, c, "balanceOf", acc.ScriptHash()).Int64())
	require.Equal(t, int64(3), testInvokeInt(t, c, "balanceOf", other.ScriptHash()).Int64())
	require.Equal(t, int64(10), testInvokeInt(t, c, "totalSupply").Int64())
}

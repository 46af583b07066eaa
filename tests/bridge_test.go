package tests

import (
	"testing"

	"github.com/nspcc-dev/bancor-contract/common"
	rpcbridge "github.com/nspcc-dev/bancor-contract/rpc/bridge"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestBridgeDeploy(t *testing.T) {
	e := newExecutor(t)
	c := compileContract(t, e, bridgePath)

	e.DeployContractCheckFAULT(t, c, []any{[]byte{1, 2, 3}, []any{}}, "incorrect length of contract script hash")
	e.DeployContractCheckFAULT(t, c, []any{e.CommitteeHash, []any{}}, "at least one reporter key must be provided")
	e.DeployContractCheckFAULT(t, c, []any{e.CommitteeHash, []any{[]byte{1, 2, 3}}}, "incorrect public key length")
}

func TestBridgeReadMethods(t *testing.T) {
	a := newAMM(t)
	reporters := a.withBridge(t, 4)
	c := a.e.CommitteeInvoker(a.bridge)

	s, err := c.TestInvoke(t, "reporterAddress")
	require.NoError(t, err)
	addrBytes, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, reporters.ScriptHash().BytesBE(), addrBytes)

	s, err = c.TestInvoke(t, "network")
	require.NoError(t, err)
	netBytes, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, a.network.BytesBE(), netBytes)

	s, err = c.TestInvoke(t, "reporters")
	require.NoError(t, err)
	arr, ok := s.Pop().Value().([]stackitem.Item)
	require.True(t, ok)
	require.Len(t, arr, 4)

	require.Equal(t, int64(common.Version), testInvokeInt(t, c, "version").Int64())
}

func TestBridgeReportAmount(t *testing.T) {
	a := newAMM(t)
	reporters := a.withBridge(t, 4)

	const (
		amount = 5_00000000
		id     = "0x01"
	)

	user := a.e.NewAccount(t)
	rc := a.e.NewInvoker(a.bridge, reporters)

	a.e.NewInvoker(a.bridge, user).InvokeFail(t, common.ErrReporterWitnessFailed, "reportAmount",
		user.ScriptHash(), id, a.tka, int64(amount))
	a.e.CommitteeInvoker(a.bridge).InvokeFail(t, common.ErrReporterWitnessFailed, "reportAmount",
		user.ScriptHash(), id, a.tka, int64(amount))
	rc.InvokeFail(t, common.ErrNonPositiveAmount, "reportAmount", user.ScriptHash(), id, a.tka, int64(0))
	rc.InvokeFail(t, common.ErrInvalidAccount, "reportAmount", []byte{1, 2, 3}, id, a.tka, int64(amount))
	rc.InvokeFail(t, common.ErrUnknownAmount, "reportAmount", user.ScriptHash(), "", a.tka, int64(amount))

	c := a.e.CommitteeInvoker(a.bridge)
	c.InvokeFail(t, common.ErrUnknownAmount, "pendingAmount", user.ScriptHash(), id)

	aer := a.e.CheckHalt(t, rc.Invoke(t, stackitem.Null{}, "reportAmount",
		user.ScriptHash(), id, a.tka, int64(amount)))

	evs, err := rpcbridge.AmountReportedEventsFromApplicationLog(applicationLog(aer))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, user.ScriptHash(), evs[0].Account)
	require.Equal(t, id, evs[0].ID)
	require.Equal(t, a.tka, evs[0].Token)
	require.Equal(t, int64(amount), evs[0].Amount.Int64())

	rc.InvokeFail(t, common.ErrAmountAlreadyExist, "reportAmount", user.ScriptHash(), id, a.tkb, int64(1))

	s, err := c.TestInvoke(t, "pendingAmount", user.ScriptHash(), id)
	require.NoError(t, err)

	var pending rpcbridge.BridgeAmount
	require.NoError(t, pending.FromStackItem(s.Pop().Item()))
	require.Equal(t, a.tka, pending.Token)
	require.Equal(t, int64(amount), pending.Amount.Int64())

	// Same id of the other account is a different amount.
	rc.Invoke(t, stackitem.Null{}, "reportAmount", a.e.CommitteeHash, id, a.tkb, int64(1))

	// Only the network contract can consume amounts.
	c.InvokeFail(t, common.ErrCallerNotNetwork, "consume", user.ScriptHash(), id)
	a.e.NewInvoker(a.bridge, user).InvokeFail(t, common.ErrCallerNotNetwork, "consume", user.ScriptHash(), id)
}

func TestBridgePayment(t *testing.T) {
	a := newAMM(t)
	a.withBridge(t, 1)

	user := a.newUser(t, 10, 0)
	tc := a.e.NewInvoker(a.tka, user)

	tc.InvokeFail(t, common.ErrInvalidMemo, "transfer", user.ScriptHash(), a.bridge, int64(1), "")
	tc.InvokeFail(t, common.ErrNonPositiveAmount, "transfer", user.ScriptHash(), a.bridge, int64(0), nil)

	tc.Invoke(t, true, "transfer", user.ScriptHash(), a.bridge, int64(3), nil)

	aer := a.e.CheckHalt(t, tc.Invoke(t, true, "transfer", user.ScriptHash(), a.bridge, int64(2), "neo:NbrUYaZgyhSkNoRo9ugRyEMdUZxrhkNaWB"))
	evs, err := rpcbridge.XTransferEventsFromApplicationLog(applicationLog(aer))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, user.ScriptHash(), evs[0].From)
	require.Equal(t, a.tka, evs[0].Token)
	require.Equal(t, int64(2), evs[0].Amount.Int64())

	require.Equal(t, int64(5), a.balance(t, a.tka, a.bridge))
}

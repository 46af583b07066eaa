package tests

import (
	"math/big"
	"strings"
	"testing"

	"github.com/nspcc-dev/bancor-contract/eventlog"
	"github.com/nspcc-dev/bancor-contract/rpc/converter"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

// invokeHalt invokes the method and returns the execution result. Use it
// for methods returning structures.
func invokeHalt(t testing.TB, c *neotest.ContractInvoker, method string, args ...any) *state.AppExecResult {
	tx := c.PrepareInvoke(t, method, args...)
	c.AddNewBlock(t, tx)
	return c.CheckHalt(t, tx.Hash())
}

func applicationLog(aer *state.AppExecResult) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:     aer.Container,
		IsTransaction: true,
		Executions:    []state.Execution{aer.Execution},
	}
}

// poolPrecision resolves every pool precision to the same value.
type poolPrecision int

func (p poolPrecision) PoolPrecision(util.Uint160, string) (int, error) {
	return int(p), nil
}

// projectNDJSON returns event records of the execution as eventlog writes
// them.
func projectNDJSON(t testing.TB, aer *state.AppExecResult) string {
	recs, err := eventlog.New(nil, poolPrecision(poolDecimals)).Project(applicationLog(aer))
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, eventlog.Write(&sb, recs))
	return sb.String()
}

func testInvokeInt(t testing.TB, c *neotest.ContractInvoker, method string, args ...any) *big.Int {
	s, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)
	return s.Pop().BigInt()
}

func (a *amm) balance(t testing.TB, token, acc util.Uint160) int64 {
	return testInvokeInt(t, a.e.CommitteeInvoker(token), "balanceOf", acc).Int64()
}

func (a *amm) supply(t testing.TB) int64 {
	return testInvokeInt(t, a.e.CommitteeInvoker(a.pool), "totalSupply").Int64()
}

func (a *amm) pending(t testing.TB, acc util.Uint160, symbol string) int64 {
	return testInvokeInt(t, a.committeeConverter(), "pending", poolCode, acc, symbol).Int64()
}

func (a *amm) reserve(t testing.TB, code string) converter.ConverterReserve {
	s, err := a.committeeConverter().TestInvoke(t, "getReserve", poolCode, code)
	require.NoError(t, err)

	var r converter.ConverterReserve
	require.NoError(t, r.FromStackItem(s.Pop().Item()))
	return r
}

func (a *amm) settings(t testing.TB) converter.ConverterSettings {
	s, err := a.committeeConverter().TestInvoke(t, "getSettings", poolCode)
	require.NoError(t, err)

	var st converter.ConverterSettings
	require.NoError(t, st.FromStackItem(s.Pop().Item()))
	return st
}

// convert deposits amount of the pay token and converts it with the min
// return of one unit.
func (a *amm) convert(t testing.TB, user neotest.Signer, token util.Uint160, pay string, amount int64, target string) (*state.AppExecResult, converter.ConverterConversion) {
	a.deposit(t, user, token, amount)

	aer := invokeHalt(t, a.userConverter(user), "convert",
		user.ScriptHash(), poolCode, pay, amount, target, int64(1))
	require.Equal(t, 1, len(aer.Stack))

	var res converter.ConverterConversion
	require.NoError(t, res.FromStackItem(aer.Stack[0]))
	return aer, res
}

func conversionEvents(t testing.TB, aer *state.AppExecResult) []*converter.ConversionEvent {
	evs, err := converter.ConversionEventsFromApplicationLog(applicationLog(aer))
	require.NoError(t, err)
	return evs
}

func priceDataEvents(t testing.TB, aer *state.AppExecResult) []*converter.PriceDataEvent {
	evs, err := converter.PriceDataEventsFromApplicationLog(applicationLog(aer))
	require.NoError(t, err)
	return evs
}

func addr(h util.Uint160) string {
	return address.Uint160ToString(h)
}

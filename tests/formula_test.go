package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func newFormulaInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	c := compileContract(t, e, formulaPath)
	e.DeployContract(t, c, nil)
	return e.CommitteeInvoker(c.Hash)
}

// testInvokeReturn returns amount and fee of the formula result.
func testInvokeReturn(t *testing.T, c *neotest.ContractInvoker, method string, args ...any) (int64, int64) {
	s, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)

	arr, ok := s.Pop().Item().Value().([]stackitem.Item)
	require.True(t, ok)
	require.Len(t, arr, 2)

	amount, err := arr[0].TryInteger()
	require.NoError(t, err)
	fee, err := arr[1].TryInteger()
	require.NoError(t, err)
	return amount.Int64(), fee.Int64()
}

func TestFormulaPurchase(t *testing.T) {
	c := newFormulaInvoker(t)

	testCases := []struct {
		name               string
		supply, balance    int64
		ratio, amount, fee int64
		expReturn, expFee  int64
	}{
		{"no fee", 1000_0000, 1000_00000000, 500_000, 2_20130604, 0, 1_1000, 0},
		{"with fee", 1000_0000, 1000_00000000, 300_000, 50_00000000, 2500, 147077, 369},
		{"small ratio", 1000_0000, 1000_00000000, 300_000, 1_00000000, 0, 2998, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ret, fee := testInvokeReturn(t, c, "purchaseReturn",
				tc.supply, tc.balance, tc.ratio, tc.amount, tc.fee)
			require.Equal(t, tc.expReturn, ret)
			require.Equal(t, tc.expFee, fee)
		})
	}
}

func TestFormulaSale(t *testing.T) {
	c := newFormulaInvoker(t)

	ret, fee := testInvokeReturn(t, c, "saleReturn",
		int64(1000_0000), int64(1000_00000000), int64(500_000), int64(10_0000), int64(0))
	require.Equal(t, int64(19_89999999), ret)
	require.Equal(t, int64(0), fee)

	ret, fee = testInvokeReturn(t, c, "saleReturn",
		int64(1000_0000), int64(1000_00000000), int64(250_000), int64(300_0000), int64(1000))
	require.Equal(t, int64(759_14009999), ret)
	require.Equal(t, int64(75990000), fee)

	t.Run("whole supply", func(t *testing.T) {
		ret, _ := testInvokeReturn(t, c, "saleReturn",
			int64(1000_0000), int64(1000_00000000), int64(300_000), int64(1000_0000), int64(0))
		require.Equal(t, int64(1000_00000000), ret)
	})
}

func TestFormulaCrossReserve(t *testing.T) {
	c := newFormulaInvoker(t)

	ret, fee := testInvokeReturn(t, c, "crossReserveReturn",
		int64(1000_00000000), int64(500_000), int64(1000_00000000), int64(500_000), int64(1_00000000), int64(0))
	require.Equal(t, int64(99900099), ret)
	require.Equal(t, int64(0), fee)

	ret, fee = testInvokeReturn(t, c, "crossReserveReturn",
		int64(1000_00000000), int64(200_000), int64(500_00000000), int64(600_000), int64(10_00000000), int64(3000))
	require.Equal(t, int64(165067433), ret)
	require.Equal(t, int64(496693), fee)
}

func TestFormulaFundLiquidate(t *testing.T) {
	c := newFormulaInvoker(t)

	require.Equal(t, int64(20_10000001), testInvokeInt(t, c, "fundCost",
		int64(1000_0000), int64(1000_00000000), int64(500_000), int64(10_0000)).Int64())
	require.Equal(t, int64(30000), testInvokeInt(t, c, "fundCost",
		int64(1000_0000), int64(1000_00000000), int64(1_000_000), int64(3)).Int64())

	require.Equal(t, int64(19_89999999), testInvokeInt(t, c, "liquidateReturn",
		int64(1000_0000), int64(1000_00000000), int64(500_000), int64(10_0000)).Int64())
	require.Equal(t, int64(30000), testInvokeInt(t, c, "liquidateReturn",
		int64(1000_0000), int64(1000_00000000), int64(1_000_000), int64(3)).Int64())

	// Funding costs never less than liquidation returns.
	for _, amount := range []int64{1, 7, 10_0000, 999_9999} {
		cost := testInvokeInt(t, c, "fundCost", int64(1000_0000), int64(1000_00000000), int64(500_000), amount)
		ret := testInvokeInt(t, c, "liquidateReturn", int64(1000_0000), int64(1000_00000000), int64(500_000), amount)
		require.True(t, cost.Cmp(ret) >= 0, "amount %d: cost %s, return %s", amount, cost, ret)
	}
}

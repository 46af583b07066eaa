package converter

import (
	"github.com/nspcc-dev/bancor-contract/common"
	"github.com/nspcc-dev/bancor-contract/formula"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	fundAction      = "fund"
	liquidateAction = "liquidate"
	setupAction     = "setup"
)

// conversion is a computed but not committed conversion.
type conversion struct {
	settings Settings
	pay      common.Symbol
	target   common.Symbol
	// from and to are empty for the pool token side.
	from     Reserve
	to       Reserve
	fromPool bool
	toPool   bool
	supply   int
	amount   int
	ret      int
	fee      int
}

// Convert converts amount of paySymbol deposited by the account to the
// targetSymbol. Either symbol may be a reserve or the pool token, at most one
// fee is charged. The amount must be deposited with the `fund;<POOL>`
// transfer beforehand, the return is paid to the account.
//
// It produces Conversion notification and PriceData notification for each
// touched reserve. Conversion fails if the return is less than minReturn.
func Convert(account interop.Hash160, pool string, paySymbol string, amount int, targetSymbol string, minReturn int) Conversion {
	common.CheckAccount(account)

	ctx := storage.GetContext()
	c := compute(ctx, pool, paySymbol, amount, targetSymbol)
	if c.ret < minReturn {
		panic(common.ErrBelowMinReturn)
	}

	if common.GetInt(ctx, pendingKey(pool, account, c.pay.Code)) < amount {
		panic(common.ErrInsufficientBalance)
	}
	addPending(ctx, pool, account, c.pay.Code, -amount)

	supply := c.supply
	if c.fromPool {
		supply -= amount
	} else {
		c.from.Balance += amount
		putReserve(ctx, pool, c.from)
	}
	if c.toPool {
		supply += c.ret
	} else {
		c.to.Balance -= c.ret
		putReserve(ctx, pool, c.to)
	}

	paid := common.FormatSymbol(c.pay.Precision, c.pay.Code)
	target := common.FormatSymbol(c.target.Precision, c.target.Code)
	runtime.Notify("Conversion", pool, paid, target, amount, c.ret, c.fee)
	if !c.fromPool {
		notifyPrice(pool, c.from, supply)
	}
	if !c.toPool {
		notifyPrice(pool, c.to, supply)
	}

	// Every storage change is done, tokens can be moved now.
	res := Conversion{Symbol: target, Amount: c.ret, Fee: c.fee}
	if c.fromPool {
		common.Burn(c.settings.Token, runtime.GetExecutingScriptHash(), amount)
	}
	if c.toPool {
		res.Token = c.settings.Token
		common.Mint(c.settings.Token, account, c.ret)
	} else {
		res.Token = c.to.Token
		common.Transfer(c.to.Token, account, c.ret, nil)
	}

	return res
}

// Quote returns the result Convert would produce for the same arguments
// with the current pool state.
func Quote(pool string, paySymbol string, amount int, targetSymbol string) Conversion {
	c := compute(storage.GetReadOnlyContext(), pool, paySymbol, amount, targetSymbol)

	res := Conversion{
		Symbol: common.FormatSymbol(c.target.Precision, c.target.Code),
		Amount: c.ret,
		Fee:    c.fee,
	}
	if c.toPool {
		res.Token = c.settings.Token
	} else {
		res.Token = c.to.Token
	}
	return res
}

// Fund issues amount of pool tokens to the account in exchange for the
// proportional part of every reserve. Costs (see FundCost) are taken from
// the account deposits made with `fund;<POOL>` transfers; the rest of the
// deposits stays available for Withdraw.
func Fund(account interop.Hash160, pool string, amount int) {
	common.CheckAccount(account)
	if amount <= 0 {
		panic(common.ErrNonPositiveAmount)
	}

	ctx := storage.GetContext()
	st := getSettings(ctx, pool)
	if !st.Enabled {
		panic(common.ErrConverterDisabled)
	}

	reserves := listReserves(ctx, pool)
	if len(reserves) == 0 {
		panic(common.ErrUnknownReserve)
	}
	if st.RequireBalance {
		checkBalances(reserves)
	}

	supply := totalSupply(st.Token)
	costs := fundCosts(supply, reserves, amount)

	for i := range reserves {
		if common.GetInt(ctx, pendingKey(pool, account, reserves[i].Code)) < costs[i] {
			panic(common.ErrInsufficientBalance)
		}
	}

	for i := range reserves {
		addPending(ctx, pool, account, reserves[i].Code, -costs[i])

		reserves[i].Balance += costs[i]
		putReserve(ctx, pool, reserves[i])
	}

	runtime.Notify("Fund", pool, account, amount)
	for i := range reserves {
		notifyPrice(pool, reserves[i], supply+amount)
	}

	common.Mint(st.Token, account, amount)
}

// FundCost returns amounts of every reserve required to Fund amount of the
// pool tokens.
func FundCost(pool string, amount int) []Asset {
	if amount <= 0 {
		panic(common.ErrNonPositiveAmount)
	}

	ctx := storage.GetReadOnlyContext()
	st := getSettings(ctx, pool)
	reserves := listReserves(ctx, pool)
	costs := fundCosts(totalSupply(st.Token), reserves, amount)

	res := []Asset{}
	for i := range reserves {
		res = append(res, Asset{
			Token:  reserves[i].Token,
			Symbol: common.FormatSymbol(reserves[i].Precision, reserves[i].Code),
			Amount: costs[i],
		})
	}
	return res
}

// Withdraw returns amount of the account deposit back to the account.
func Withdraw(account interop.Hash160, pool string, symbol string, amount int) {
	common.CheckAccount(account)

	ctx := storage.GetContext()
	st := getSettings(ctx, pool)
	sym := common.ParseSymbol(symbol)

	var token interop.Hash160
	if sym.Code == st.Code {
		if sym.Precision != st.Precision {
			panic(common.ErrPrecisionMismatch)
		}
		token = st.Token
	} else {
		r := getReserve(ctx, pool, sym.Code)
		if sym.Precision != r.Precision {
			panic(common.ErrPrecisionMismatch)
		}
		token = r.Token
	}

	pending := common.GetInt(ctx, pendingKey(pool, account, sym.Code))
	if pending == 0 {
		panic(common.ErrNoPendingDeposit)
	}
	if amount <= 0 {
		panic(common.ErrNonPositiveAmount)
	}
	if amount > pending {
		panic(common.ErrInsufficientBalance)
	}

	addPending(ctx, pool, account, sym.Code, -amount)
	common.Transfer(token, account, amount, nil)
}

// OnNEP17Payment accepts pool and reserve tokens. Data is a memo string
// `<action>;<POOL>`, where POOL is a pool code or a pool symbol:
//   - fund: deposit of a reserve or the pool token for Convert and Fund;
//   - liquidate: burn received pool tokens and pay out reserves proportionally;
//   - setup: initial reserve balance from the pool owner, the pool must be
//     disabled.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if amount <= 0 {
		panic(common.ErrNonPositiveAmount)
	}
	if data == nil {
		panic(common.ErrInvalidMemo)
	}

	parts := std.StringSplit(data.(string), ";")
	if len(parts) != 2 {
		panic(common.ErrInvalidMemo)
	}

	ctx := storage.GetContext()
	st := resolvePool(ctx, parts[1])
	token := runtime.GetCallingScriptHash()

	switch parts[0] {
	case fundAction:
		if len(from) != interop.Hash160Len {
			panic(common.ErrInvalidAccount)
		}
		code := st.Code
		if !token.Equals(st.Token) {
			code = reserveByToken(ctx, st.Code, token).Code
			if len(code) == 0 {
				panic(common.ErrUnauthorizedToken)
			}
		}
		addPending(ctx, st.Code, from, code, amount)
	case liquidateAction:
		if !token.Equals(st.Token) {
			panic(common.ErrUnauthorizedToken)
		}
		liquidate(ctx, st, from, amount)
	case setupAction:
		if !from.Equals(st.Owner) {
			panic(common.ErrOwnerWitnessFailed)
		}
		if st.Enabled {
			panic(common.ErrConverterEnabled)
		}
		r := reserveByToken(ctx, st.Code, token)
		if len(r.Code) == 0 {
			panic(common.ErrUnauthorizedToken)
		}
		r.Balance += amount
		putReserve(ctx, st.Code, r)
		notifyPrice(st.Code, r, totalSupply(st.Token))
	default:
		panic(common.ErrInvalidMemo)
	}
}

// liquidate burns amount of pool tokens received by the converter and pays
// out every reserve proportionally.
func liquidate(ctx storage.Context, st Settings, account interop.Hash160, amount int) {
	if len(account) != interop.Hash160Len {
		panic(common.ErrInvalidAccount)
	}

	reserves := listReserves(ctx, st.Code)
	if len(reserves) == 0 {
		panic(common.ErrUnknownReserve)
	}

	supply := totalSupply(st.Token)
	ratio := totalRatio(reserves)
	outs := []int{}
	for i := range reserves {
		out := formula.LiquidateReturn(supply, reserves[i].Balance, ratio, amount)
		outs = append(outs, out)

		reserves[i].Balance -= out
		putReserve(ctx, st.Code, reserves[i])
	}

	runtime.Notify("Liquidate", st.Code, account, amount)
	for i := range reserves {
		notifyPrice(st.Code, reserves[i], supply-amount)
	}

	common.Burn(st.Token, runtime.GetExecutingScriptHash(), amount)
	for i := range reserves {
		if outs[i] > 0 {
			common.Transfer(reserves[i].Token, account, outs[i], nil)
		}
	}
}

// compute validates conversion arguments and computes its result. It does
// not change anything.
func compute(ctx storage.Context, pool string, paySymbol string, amount int, targetSymbol string) conversion {
	c := conversion{
		settings: getSettings(ctx, pool),
		pay:      common.ParseSymbol(paySymbol),
		target:   common.ParseSymbol(targetSymbol),
		amount:   amount,
	}
	st := c.settings

	if !st.Enabled {
		panic(common.ErrConverterDisabled)
	}
	if amount <= 0 {
		panic(common.ErrNonPositiveAmount)
	}
	if c.pay.Code == c.target.Code {
		panic(common.ErrSameSymbol)
	}

	if c.pay.Code == st.Code {
		checkPrecision(c.pay, st.Precision)
		c.fromPool = true
	} else {
		c.from = getReserve(ctx, pool, c.pay.Code)
		checkPrecision(c.pay, c.from.Precision)
	}
	if c.target.Code == st.Code {
		checkPrecision(c.target, st.Precision)
		c.toPool = true
	} else {
		c.to = getReserve(ctx, pool, c.target.Code)
		checkPrecision(c.target, c.to.Precision)
		if !c.to.SaleEnabled {
			panic(common.ErrSaleDisabled)
		}
	}

	if (c.fromPool || c.toPool) && !st.PoolEnabled {
		panic(common.ErrPoolDisabled)
	}
	if st.RequireBalance {
		checkBalances(listReserves(ctx, pool))
	}
	if !c.fromPool && c.from.Balance == 0 || !c.toPool && c.to.Balance == 0 {
		panic(common.ErrEmptyReserve)
	}

	c.supply = totalSupply(st.Token)
	switch {
	case c.fromPool:
		if amount > c.supply {
			panic(common.ErrInsufficientBalance)
		}
		ret, fee := formula.SaleReturn(c.supply, c.to.Balance, c.to.Ratio, amount, st.Fee)
		c.ret = ret
		c.fee = fee
	case c.toPool:
		ret, fee := formula.PurchaseReturn(c.supply, c.from.Balance, c.from.Ratio, amount, st.Fee)
		c.ret = ret
		c.fee = fee
	default:
		ret, fee := formula.CrossReserveReturn(c.from.Balance, c.from.Ratio, c.to.Balance, c.to.Ratio, amount, st.Fee)
		c.ret = ret
		c.fee = fee
	}

	if c.ret <= 0 {
		panic(common.ErrZeroReturn)
	}
	return c
}

func fundCosts(supply int, reserves []Reserve, amount int) []int {
	if supply == 0 {
		panic(common.ErrEmptyReserve)
	}

	ratio := totalRatio(reserves)
	costs := []int{}
	for i := range reserves {
		costs = append(costs, formula.FundCost(supply, reserves[i].Balance, ratio, amount))
	}
	return costs
}

func checkPrecision(sym common.Symbol, precision int) {
	if sym.Precision != precision {
		panic(common.ErrPrecisionMismatch)
	}
}

func notifyPrice(pool string, r Reserve, supply int) {
	runtime.Notify("PriceData", pool, common.FormatSymbol(r.Precision, r.Code), r.Ratio, r.Balance, supply)
}

package converter

import (
	"github.com/nspcc-dev/bancor-contract/common"
	"github.com/nspcc-dev/bancor-contract/formula"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	// ErrInvalidFee is thrown for negative fee values.
	ErrInvalidFee = "invalid fee"
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("converter contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("converter contract updated")
}

// Init creates a new pool backed by the token. The pool is named after the
// token symbol. The converter must be the token issuer, initialSupply of the
// pool tokens is issued to the owner. New pool is disabled until the owner
// enables it with UpdateSettings.
func Init(owner, token interop.Hash160, initialSupply, maxFee, fee int) {
	if len(owner) != interop.Hash160Len || len(token) != interop.Hash160Len {
		panic(common.ErrInvalidAccount)
	}
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()

	code := contract.Call(token, "symbol", contract.ReadOnly).(string)
	common.CheckCode(code)
	if storage.Get(ctx, settingsKey(code)) != nil {
		panic(common.ErrSettingsExist)
	}

	issuer := contract.Call(token, "issuer", contract.ReadOnly).(interop.Hash160)
	if !issuer.Equals(runtime.GetExecutingScriptHash()) {
		panic(common.ErrNotIssuer)
	}

	checkFees(fee, maxFee)
	if initialSupply <= 0 {
		panic(common.ErrNonPositiveAmount)
	}

	st := Settings{
		Owner:       owner,
		Token:       token,
		Code:        code,
		Precision:   contract.Call(token, "decimals", contract.ReadOnly).(int),
		MaxFee:      maxFee,
		Fee:         fee,
		PoolEnabled: true,
	}
	common.SetSerialized(ctx, settingsKey(code), st)

	common.Mint(token, owner, initialSupply)
	runtime.Log("pool " + code + " created")
}

// Delete removes the pool. Pool must have no reserves and no pending pool
// token deposits. It can be invoked only by the pool owner.
func Delete(pool string) {
	ctx := storage.GetContext()
	st := getSettings(ctx, pool)
	common.CheckOwnerWitness(st.Owner)

	if len(listReserves(ctx, pool)) != 0 {
		panic(common.ErrPoolHasReserves)
	}
	if pendingTotal(ctx, pool, st.Code) != 0 {
		panic(common.ErrPendingDeposits)
	}

	storage.Delete(ctx, settingsKey(pool))
	runtime.Log("pool " + pool + " removed")
}

// SetReserve adds the token as a new reserve of the pool. Symbol must match
// the token symbol and decimals exactly. Reserve ratio is in ppm, the sum of
// all pool reserve ratios can not exceed 1_000_000. Pool must be disabled.
// It can be invoked only by the pool owner.
func SetReserve(pool string, token interop.Hash160, symbol string, ratio int, saleEnabled bool) {
	ctx := storage.GetContext()
	st := getSettings(ctx, pool)
	common.CheckOwnerWitness(st.Owner)

	if st.Enabled {
		panic(common.ErrConverterEnabled)
	}

	sym := common.ParseSymbol(symbol)
	if len(token) != interop.Hash160Len || token.Equals(st.Token) || sym.Code == st.Code {
		panic(common.ErrUnknownToken)
	}
	if contract.Call(token, "symbol", contract.ReadOnly).(string) != sym.Code {
		panic(common.ErrCodeMismatch)
	}
	if contract.Call(token, "decimals", contract.ReadOnly).(int) != sym.Precision {
		panic(common.ErrPrecisionMismatch)
	}
	if ratio < 1 || ratio > formula.PPM {
		panic(common.ErrInvalidRatio)
	}

	if storage.Get(ctx, reserveKey(pool, sym.Code)) != nil {
		panic(common.ErrReserveExists)
	}
	if totalRatio(listReserves(ctx, pool))+ratio > formula.PPM {
		panic(common.ErrInvalidRatioSum)
	}

	putReserve(ctx, pool, Reserve{
		Token:       token,
		Code:        sym.Code,
		Precision:   sym.Precision,
		Ratio:       ratio,
		SaleEnabled: saleEnabled,
	})
	runtime.Log("reserve " + sym.Code + " added to " + pool)
}

// DeleteReserve removes the reserve from the pool. Reserve balance and pending
// deposits of the reserve token must be zero. It can be invoked only by the
// pool owner.
func DeleteReserve(pool string, symbol string) {
	ctx := storage.GetContext()
	st := getSettings(ctx, pool)
	common.CheckOwnerWitness(st.Owner)

	sym := common.ParseSymbol(symbol)
	r := getReserve(ctx, pool, sym.Code)
	if r.Precision != sym.Precision {
		panic(common.ErrPrecisionMismatch)
	}
	if r.Balance != 0 {
		panic(common.ErrNonEmptyReserve)
	}
	if pendingTotal(ctx, pool, sym.Code) != 0 {
		panic(common.ErrPendingDeposits)
	}

	storage.Delete(ctx, reserveKey(pool, sym.Code))
	runtime.Log("reserve " + sym.Code + " removed from " + pool)
}

// UpdateSettings changes pool fee and flags. It can be invoked only by the
// pool owner.
func UpdateSettings(pool string, fee int, enabled, poolEnabled, requireBalance bool) {
	ctx := storage.GetContext()
	st := getSettings(ctx, pool)
	common.CheckOwnerWitness(st.Owner)

	checkFees(fee, st.MaxFee)
	st.Fee = fee
	st.Enabled = enabled
	st.PoolEnabled = poolEnabled
	st.RequireBalance = requireBalance
	common.SetSerialized(ctx, settingsKey(pool), st)
}

// UpdateOwner transfers pool ownership. It can be invoked only by the
// current pool owner.
func UpdateOwner(pool string, owner interop.Hash160) {
	if len(owner) != interop.Hash160Len {
		panic(common.ErrInvalidAccount)
	}

	ctx := storage.GetContext()
	st := getSettings(ctx, pool)
	common.CheckOwnerWitness(st.Owner)

	st.Owner = owner
	common.SetSerialized(ctx, settingsKey(pool), st)
}

// UpdateFee changes conversion fee of the pool. Fee can not exceed pool
// maximum fee. It can be invoked only by the pool owner.
func UpdateFee(pool string, fee int) {
	ctx := storage.GetContext()
	st := getSettings(ctx, pool)
	common.CheckOwnerWitness(st.Owner)

	checkFees(fee, st.MaxFee)
	st.Fee = fee
	common.SetSerialized(ctx, settingsKey(pool), st)
}

// SetMaxFee changes maximum conversion fee of the pool. Current fee can not
// exceed the new value. It can be invoked only by the pool owner.
func SetMaxFee(pool string, maxFee int) {
	ctx := storage.GetContext()
	st := getSettings(ctx, pool)
	common.CheckOwnerWitness(st.Owner)

	checkFees(st.Fee, maxFee)
	st.MaxFee = maxFee
	common.SetSerialized(ctx, settingsKey(pool), st)
}

// GetSettings returns pool settings.
func GetSettings(pool string) Settings {
	return getSettings(storage.GetReadOnlyContext(), pool)
}

// GetReserve returns pool reserve with the code.
func GetReserve(pool string, code string) Reserve {
	return getReserve(storage.GetReadOnlyContext(), pool, code)
}

// Reserves returns iterator over pool reserves.
func Reserves(pool string) iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), reservesKey(pool), storage.ValuesOnly|storage.DeserializeValues)
}

// Pending returns amount of the symbol deposited by the account and not
// consumed yet.
func Pending(pool string, account interop.Hash160, symbol string) int {
	sym := common.ParseSymbol(symbol)
	return common.GetInt(storage.GetReadOnlyContext(), pendingKey(pool, account, sym.Code))
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkFees(fee, maxFee int) {
	if fee < 0 || maxFee < 0 {
		panic(ErrInvalidFee)
	}
	if fee > maxFee || maxFee > formula.PPM {
		panic(common.ErrFeeOverMax)
	}
}

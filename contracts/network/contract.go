package network

import (
	"github.com/nspcc-dev/bancor-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Converter is a registry record of the converter contract.
	Converter struct {
		Name        string
		Hash        interop.Hash160
		DefaultPool string
	}

	// poolSettings, poolReserve, conversion and bridgeAsset are copies of
	// converter and bridge contract types to prevent cross-contract imports
	// that may fail due to internal `_deploy` calls.
	poolSettings struct {
		Owner          interop.Hash160
		Token          interop.Hash160
		Code           string
		Precision      int
		MaxFee         int
		Fee            int
		Enabled        bool
		PoolEnabled    bool
		RequireBalance bool
	}

	poolReserve struct {
		Token       interop.Hash160
		Code        string
		Precision   int
		Balance     int
		Ratio       int
		SaleEnabled bool
	}

	conversion struct {
		Token  interop.Hash160
		Symbol string
		Amount int
		Fee    int
	}

	bridgeAsset struct {
		Token  interop.Hash160
		Amount int
	}
)

const (
	ownerKey           = 'o'
	bridgeKey          = 'b'
	maxAffiliateFeeKey = 'f'
	lockKey            = 'l'
	converterPrefix    = 'c'

	ppm = 1_000_000

	// DefaultMaxAffiliateFee is the maximum affiliate fee in ppm if it was
	// not set explicitly.
	DefaultMaxAffiliateFee = 30_000
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner interop.Hash160
	})
	if len(args.owner) != interop.Hash160Len {
		panic("incorrect length of owner script hash")
	}
	storage.Put(ctx, ownerKey, args.owner)

	runtime.Log("network contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("network contract updated")
}

// Owner returns script hash of the network owner.
func Owner() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), ownerKey).(interop.Hash160)
}

// UpdateOwner transfers network ownership. It can be invoked only by the
// current owner.
func UpdateOwner(owner interop.Hash160) {
	if len(owner) != interop.Hash160Len {
		panic(common.ErrInvalidAccount)
	}
	ctx := storage.GetContext()
	checkOwner(ctx)
	storage.Put(ctx, ownerKey, owner)
}

// SetConverter registers converter contract under the name. Converter must
// host defaultPool, it is used for path hops without pool qualifier.
func SetConverter(name string, hash interop.Hash160, defaultPool string) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	if !isName(name) {
		panic("invalid converter name")
	}
	if len(hash) != interop.Hash160Len {
		panic(common.ErrInvalidAccount)
	}
	common.CheckCode(defaultPool)

	// Panics if there is no such pool.
	contract.Call(hash, "getSettings", contract.ReadOnly, defaultPool)

	common.SetSerialized(ctx, converterKey(name), Converter{
		Name:        name,
		Hash:        hash,
		DefaultPool: defaultPool,
	})
	runtime.Log("converter " + name + " registered")
}

// RemoveConverter removes converter from the registry. Paths can not refer
// to it after that.
func RemoveConverter(name string) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	getConverter(ctx, name)
	storage.Delete(ctx, converterKey(name))
	runtime.Log("converter " + name + " removed")
}

// GetConverter returns registry record of the converter.
func GetConverter(name string) Converter {
	return getConverter(storage.GetReadOnlyContext(), name)
}

// Converters returns iterator over all registered converters.
func Converters() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{converterPrefix},
		storage.ValuesOnly|storage.DeserializeValues)
}

// SetBridge sets bridge contract. Conversions with a bridge directive can
// send their result only to the bridge.
func SetBridge(hash interop.Hash160) {
	if len(hash) != interop.Hash160Len {
		panic(common.ErrInvalidAccount)
	}
	ctx := storage.GetContext()
	checkOwner(ctx)
	storage.Put(ctx, bridgeKey, hash)
}

// Bridge returns bridge contract script hash or nil if it is not set.
func Bridge() interop.Hash160 {
	h := storage.Get(storage.GetReadOnlyContext(), bridgeKey)
	if h == nil {
		return nil
	}
	return h.(interop.Hash160)
}

// SetMaxAffiliateFee sets the biggest affiliate fee in ppm accepted in
// conversion paths.
func SetMaxAffiliateFee(fee int) {
	if fee <= 0 || fee > ppm {
		panic(common.ErrInappropriateAffiliateFee)
	}
	ctx := storage.GetContext()
	checkOwner(ctx)
	storage.Put(ctx, maxAffiliateFeeKey, fee)
}

// MaxAffiliateFee returns the biggest affiliate fee in ppm accepted in
// conversion paths.
func MaxAffiliateFee() int {
	return getMaxAffiliateFee(storage.GetReadOnlyContext())
}

// OnNEP17Payment converts received tokens along the path described by the
// memo (see package documentation) and sends the result to the destination.
//
// Payments received while the conversion is in progress are returns of
// intermediate hops and are accepted as is.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	if storage.Get(ctx, lockKey) != nil {
		return
	}

	if data == nil {
		panic(common.ErrInvalidMemo)
	}
	if amount <= 0 {
		panic(common.ErrNonPositiveAmount)
	}

	p := parsePath(ctx, data.(string))
	route(ctx, from, runtime.GetCallingScriptHash(), amount, p)
}

// ConvertByRef converts the amount reported to the bridge for the account
// under the id. The amount is consumed, so it can be converted only once.
// It can be invoked only by the account.
func ConvertByRef(amountAccount interop.Hash160, amountID string, memo string) {
	common.CheckWitness(amountAccount)

	ctx := storage.GetContext()
	if storage.Get(ctx, lockKey) != nil {
		panic(common.ErrRoutingInProgress)
	}

	bridge := storage.Get(ctx, bridgeKey)
	if bridge == nil {
		panic("bridge is not set")
	}

	p := parsePath(ctx, memo)

	storage.Put(ctx, lockKey, 1)
	asset := contract.Call(bridge.(interop.Hash160), "consume", contract.All, amountAccount, amountID).(bridgeAsset)
	route(ctx, amountAccount, asset.Token, asset.Amount, p)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// route performs all hops of the path. The routing lock is held until every
// hop is done, payouts are made after that.
func route(ctx storage.Context, from, token interop.Hash160, amount int, p Path) {
	if p.HasDirective {
		bridge := storage.Get(ctx, bridgeKey)
		if bridge == nil || !p.Destination.Equals(bridge) {
			panic(common.ErrInvalidDestination)
		}
	} else if !p.Destination.Equals(from) {
		panic(common.ErrInvalidDestination)
	}

	storage.Put(ctx, lockKey, 1)

	var (
		self       = runtime.GetExecutingScriptHash()
		feeToken   interop.Hash160
		feeAmount  int
		feeCharged bool
	)

	for i := range p.Hops {
		h := p.Hops[i]
		st := contract.Call(h.Converter, "getSettings", contract.ReadOnly, h.Pool).(poolSettings)
		paySymbol := tokenSymbol(token)
		targetSymbol := common.FormatSymbol(st.Precision, st.Code)
		if h.Target != st.Code {
			r := contract.Call(h.Converter, "getReserve", contract.ReadOnly, h.Pool, h.Target).(poolReserve)
			targetSymbol = common.FormatSymbol(r.Precision, r.Code)
		}
		reserveInput := !token.Equals(st.Token)

		common.Transfer(token, h.Converter, amount, "fund;"+h.Pool)
		res := contract.Call(h.Converter, "convert", contract.All,
			self, h.Pool, paySymbol, amount, targetSymbol, 1).(conversion)

		token = res.Token
		amount = res.Amount

		if p.Affiliate != nil && !feeCharged && reserveInput {
			feeCharged = true
			feeToken = token
			feeAmount = amount * p.AffiliateFee / ppm
			runtime.Notify("Affiliate", amount, feeAmount, p.Affiliate)
			amount -= feeAmount
		}
	}

	decimals := contract.Call(token, "decimals", contract.ReadOnly).(int)
	if amount < scaleDecimal(p.MinReturn, decimals) {
		panic(common.ErrBelowMinReturn)
	}

	storage.Delete(ctx, lockKey)

	if feeAmount > 0 {
		common.Transfer(feeToken, p.Affiliate, feeAmount, nil)
	}

	var data any
	if p.HasDirective {
		data = p.Directive
	}
	common.Transfer(token, p.Destination, amount, data)
}

func tokenSymbol(token interop.Hash160) string {
	code := contract.Call(token, "symbol", contract.ReadOnly).(string)
	decimals := contract.Call(token, "decimals", contract.ReadOnly).(int)
	return common.FormatSymbol(decimals, code)
}

func checkOwner(ctx storage.Context) {
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).(interop.Hash160))
}

func getConverter(ctx storage.Context, name string) Converter {
	data := storage.Get(ctx, converterKey(name))
	if data == nil {
		panic(common.ErrUnknownConverter)
	}
	return std.Deserialize(data.([]byte)).(Converter)
}

func getMaxAffiliateFee(ctx storage.Context) int {
	fee := storage.Get(ctx, maxAffiliateFeeKey)
	if fee == nil {
		return DefaultMaxAffiliateFee
	}
	return fee.(int)
}

func converterKey(name string) []byte {
	return append([]byte{converterPrefix}, []byte(name)...)
}

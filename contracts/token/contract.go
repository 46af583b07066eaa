package token

import (
	"github.com/nspcc-dev/bancor-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	symbolKey   = 's'
	decimalsKey = 'd'
	issuerKey   = 'i'
	supplyKey   = 't'
	accPrefix   = 'a'

	// ErrNotIssuer is thrown when mint or burn is called not by the issuer.
	ErrNotIssuer = "only issuer can mint or burn tokens"
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
		symbol   string
		decimals int
		issuer   interop.Hash160
	})

	common.CheckCode(args.symbol)
	if args.decimals < 0 || args.decimals > common.MaxPrecision {
		panic("invalid decimals")
	}
	if len(args.issuer) != interop.Hash160Len {
		panic("incorrect length of issuer script hash")
	}

	storage.Put(ctx, symbolKey, args.symbol)
	storage.Put(ctx, decimalsKey, args.decimals)
	storage.Put(ctx, issuerKey, args.issuer)

	runtime.Log(args.symbol + " token initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("token contract updated")
}

// Symbol is a NEP-17 standard method that returns token code.
func Symbol() string {
	return storage.Get(storage.GetReadOnlyContext(), symbolKey).(string)
}

// Decimals is a NEP-17 standard method that returns token precision.
func Decimals() int {
	return storage.Get(storage.GetReadOnlyContext(), decimalsKey).(int)
}

// TotalSupply is a NEP-17 standard method that returns the amount of issued
// tokens.
func TotalSupply() int {
	return common.GetInt(storage.GetReadOnlyContext(), supplyKey)
}

// BalanceOf is a NEP-17 standard method that returns token balance of the
// specified account.
func BalanceOf(account interop.Hash160) int {
	if len(account) != interop.Hash160Len {
		panic(common.ErrInvalidAccount)
	}
	return common.GetInt(storage.GetReadOnlyContext(), accountKey(account))
}

// Issuer returns script hash of the account allowed to mint and burn tokens.
// For pool tokens it is the converter contract.
func Issuer() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), issuerKey).(interop.Hash160)
}

// Transfer is a NEP-17 standard method that transfers tokens from one
// account to another. It can be invoked by the account owner or by the
// contract owning the tokens.
//
// If the recipient is a contract, its onNEP17Payment method is called with
// the passed data.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic(common.ErrInvalidAccount)
	}
	if amount < 0 {
		panic("negative amount")
	}

	if !common.IsUsableAddress(from) {
		return false
	}

	ctx := storage.GetContext()
	fromKey := accountKey(from)
	balance := common.GetInt(ctx, fromKey)
	if balance < amount {
		runtime.Log("not enough assets")
		return false
	}

	if amount != 0 && !from.Equals(to) {
		common.PutInt(ctx, fromKey, balance-amount)

		toKey := accountKey(to)
		common.PutInt(ctx, toKey, common.GetInt(ctx, toKey)+amount)
	}

	postTransfer(from, to, amount, data)
	return true
}

// Mint issues new tokens to the account. It can be invoked only by the
// issuer.
//
// It produces Transfer notification with nil sender.
func Mint(to interop.Hash160, amount int) {
	checkIssuer()
	if len(to) != interop.Hash160Len {
		panic(common.ErrInvalidAccount)
	}
	if amount <= 0 {
		panic(common.ErrNonPositiveAmount)
	}

	ctx := storage.GetContext()
	toKey := accountKey(to)
	common.PutInt(ctx, toKey, common.GetInt(ctx, toKey)+amount)
	storage.Put(ctx, supplyKey, common.GetInt(ctx, supplyKey)+amount)

	postTransfer(nil, to, amount, nil)
}

// Burn retires tokens of the account. It can be invoked only by the issuer.
//
// It produces Transfer notification with nil recipient.
func Burn(from interop.Hash160, amount int) {
	checkIssuer()
	if len(from) != interop.Hash160Len {
		panic(common.ErrInvalidAccount)
	}
	if amount <= 0 {
		panic(common.ErrNonPositiveAmount)
	}

	ctx := storage.GetContext()
	fromKey := accountKey(from)
	balance := common.GetInt(ctx, fromKey)
	if balance < amount {
		panic(common.ErrInsufficientBalance)
	}

	supply := common.GetInt(ctx, supplyKey)
	if supply < amount {
		panic("negative supply after burn")
	}

	common.PutInt(ctx, fromKey, balance-amount)
	common.PutInt(ctx, supplyKey, supply-amount)

	var to interop.Hash160
	runtime.Notify("Transfer", from, to, amount)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkIssuer() {
	issuer := storage.Get(storage.GetReadOnlyContext(), issuerKey).(interop.Hash160)
	if !common.IsUsableAddress(issuer) {
		panic(ErrNotIssuer)
	}
}

func postTransfer(from, to interop.Hash160, amount int, data any) {
	runtime.Notify("Transfer", from, to, amount)
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

func accountKey(account interop.Hash160) []byte {
	return append([]byte{accPrefix}, account...)
}

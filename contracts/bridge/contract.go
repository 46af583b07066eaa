package bridge

import (
	"github.com/nspcc-dev/bancor-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Amount is a token amount reported for the account.
	Amount struct {
		Token  interop.Hash160
		Amount int
	}
)

const (
	networkKey   = "network"
	reportersKey = "reporters"
	amountPrefix = "a"
)

// _deploy sets the network contract and reporter keys.
// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		network   interop.Hash160
		reporters []interop.PublicKey
	})

	if len(args.network) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}
	if len(args.reporters) == 0 {
		panic("at least one reporter key must be provided")
	}
	for _, pub := range args.reporters {
		if len(pub) != interop.PublicKeyCompressedLen {
			panic("incorrect public key length")
		}
	}

	storage.Put(ctx, networkKey, args.network)
	common.SetSerialized(ctx, reportersKey, args.reporters)

	runtime.Log("bridge contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("bridge contract updated")
}

// Network returns script hash of the network contract.
func Network() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), networkKey).(interop.Hash160)
}

// Reporters returns keys of the bridge reporters.
func Reporters() []interop.PublicKey {
	return getReporters(storage.GetReadOnlyContext())
}

// ReporterAddress returns 2/3n+1 multisignature address of the reporters.
func ReporterAddress() interop.Hash160 {
	return interop.Hash160(common.Multiaddress(getReporters(storage.GetReadOnlyContext()), false))
}

// ReportAmount records the amount of the token that arrived from the other
// side for the account under the id. Bridge must already hold the tokens.
// It can be invoked only by the reporters multisignature.
//
// This method produces AmountReported notification.
func ReportAmount(account interop.Hash160, id string, token interop.Hash160, amount int) {
	ctx := storage.GetContext()
	if !runtime.CheckWitness(common.Multiaddress(getReporters(ctx), false)) {
		panic(common.ErrReporterWitnessFailed)
	}

	if len(account) != interop.Hash160Len || len(token) != interop.Hash160Len {
		panic(common.ErrInvalidAccount)
	}
	if amount <= 0 {
		panic(common.ErrNonPositiveAmount)
	}
	if len(id) == 0 {
		panic(common.ErrUnknownAmount)
	}

	key := amountKey(account, id)
	if storage.Get(ctx, key) != nil {
		panic(common.ErrAmountAlreadyExist)
	}

	common.SetSerialized(ctx, key, Amount{Token: token, Amount: amount})
	runtime.Notify("AmountReported", account, id, token, amount)
}

// PendingAmount returns the reported amount that is not consumed yet.
func PendingAmount(account interop.Hash160, id string) Amount {
	return getAmount(storage.GetReadOnlyContext(), account, id)
}

// Consume removes the reported amount and transfers it to the network
// contract. It can be invoked only by the network contract.
func Consume(account interop.Hash160, id string) Amount {
	ctx := storage.GetContext()

	network := storage.Get(ctx, networkKey).(interop.Hash160)
	if !runtime.GetCallingScriptHash().Equals(network) {
		panic(common.ErrCallerNotNetwork)
	}

	a := getAmount(ctx, account, id)
	storage.Delete(ctx, amountKey(account, id))

	common.Transfer(a.Token, network, a.Amount, nil)
	return a
}

// OnNEP17Payment accepts tokens. Transfer with no data tops up bridge
// balance for the reported amounts, transfer with the directive string is
// sent to the other side.
//
// This method produces XTransfer notification for the directive transfers.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if amount <= 0 {
		panic(common.ErrNonPositiveAmount)
	}
	if data == nil {
		runtime.Log("bridge balance replenished")
		return
	}

	directive := data.(string)
	if len(directive) == 0 {
		panic(common.ErrInvalidMemo)
	}

	runtime.Notify("XTransfer", from, runtime.GetCallingScriptHash(), amount, directive)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getReporters(ctx storage.Context) []interop.PublicKey {
	return std.Deserialize(storage.Get(ctx, reportersKey).([]byte)).([]interop.PublicKey)
}

func getAmount(ctx storage.Context, account interop.Hash160, id string) Amount {
	data := storage.Get(ctx, amountKey(account, id))
	if data == nil {
		panic(common.ErrUnknownAmount)
	}
	return std.Deserialize(data.([]byte)).(Amount)
}

func amountKey(account interop.Hash160, id string) []byte {
	key := append([]byte(amountPrefix), account...)
	return append(key, []byte(id)...)
}

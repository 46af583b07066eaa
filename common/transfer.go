package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// ErrTransferFailed is thrown when NEP-17 transfer returns false.
const ErrTransferFailed = "token transfer failed"

// Transfer transfers amount of NEP-17 token from the executing contract to
// the recipient. It panics with ErrTransferFailed message if the token refuses
// the transfer.
func Transfer(token, to interop.Hash160, amount int, data any) {
	self := runtime.GetExecutingScriptHash()
	ok := contract.Call(token, "transfer", contract.All, self, to, amount, data).(bool)
	if !ok {
		panic(ErrTransferFailed)
	}
}

// Mint issues new tokens of the pool token to the recipient. Executing
// contract must be the token issuer.
func Mint(token, to interop.Hash160, amount int) {
	contract.Call(token, "mint", contract.All, to, amount)
}

// Burn retires tokens of the pool token from the account. Executing
// contract must be the token issuer.
func Burn(token, from interop.Hash160, amount int) {
	contract.Call(token, "burn", contract.All, from, amount)
}

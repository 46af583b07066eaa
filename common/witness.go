package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

var (
	// ErrOwnerWitnessFailed appears when the method must be called
	// by an owner of a pool or a contract but was not.
	ErrOwnerWitnessFailed = "owner witness check failed"
	// ErrWitnessFailed appears when the method must be called
	// by an account (or on behalf of it) but was not.
	ErrWitnessFailed = "witness check failed"
	// ErrReporterWitnessFailed appears when the method must be called
	// by bridge reporters but was not.
	ErrReporterWitnessFailed = "reporter witness check failed"
	// ErrCallerNotNetwork appears when the method may be called only by the
	// network contract.
	ErrCallerNotNetwork = "caller is not the network contract"
)

// CheckOwnerWitness checks witness of the passed owner.
// It panics with ErrOwnerWitnessFailed message on fail.
func CheckOwnerWitness(owner interop.Hash160) {
	checkWitnessWithPanic(owner, ErrOwnerWitnessFailed)
}

// CheckWitness checks witness of the passed account.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(account interop.Hash160) {
	checkWitnessWithPanic(account, ErrWitnessFailed)
}

// CheckAccount checks that the account either witnessed the invocation or
// is the calling contract. It panics with ErrWitnessFailed message on fail.
func CheckAccount(account interop.Hash160) {
	if !IsUsableAddress(account) {
		panic(ErrWitnessFailed)
	}
}

// IsUsableAddress checks if the account is either a witnessed address or
// the calling script hash.
func IsUsableAddress(addr interop.Hash160) bool {
	if len(addr) == interop.Hash160Len {
		if runtime.CheckWitness(addr) {
			return true
		}

		// Check if a smart contract is calling script hash
		callingScriptHash := runtime.GetCallingScriptHash()
		if callingScriptHash.Equals(addr) {
			return true
		}
	}

	return false
}

func checkWitnessWithPanic(caller interop.Hash160, panicMsg string) {
	if !runtime.CheckWitness(caller) {
		panic(panicMsg)
	}
}

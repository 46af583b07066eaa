// Package converter contains RPC wrappers for bonding curve Converter contract.
package converter

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
	"unicode/utf8"
)

// ConverterAsset is a contract-specific converter.Asset type used by its methods.
type ConverterAsset struct {
	Token util.Uint160
	Symbol string
	Amount *big.Int
}

// ConverterConversion is a contract-specific converter.Conversion type used by its methods.
type ConverterConversion struct {
	Token util.Uint160
	Symbol string
	Amount *big.Int
	Fee *big.Int
}

// ConverterReserve is a contract-specific converter.Reserve type used by its methods.
type ConverterReserve struct {
	Token util.Uint160
	Code string
	Precision *big.Int
	Balance *big.Int
	Ratio *big.Int
	SaleEnabled bool
}

// ConverterSettings is a contract-specific converter.Settings type used by its methods.
type ConverterSettings struct {
	Owner util.Uint160
	Token util.Uint160
	Code string
	Precision *big.Int
	MaxFee *big.Int
	Fee *big.Int
	Enabled bool
	PoolEnabled bool
	RequireBalance bool
}

// ConversionEvent represents "Conversion" event emitted by the contract.
type ConversionEvent struct {
	Pool string
	From string
	To string
	Amount *big.Int
	Return *big.Int
	Fee *big.Int
}

// PriceDataEvent represents "PriceData" event emitted by the contract.
type PriceDataEvent struct {
	Pool string
	Reserve string
	ReserveRatio *big.Int
	ReserveBalance *big.Int
	SmartSupply *big.Int
}

// FundEvent represents "Fund" event emitted by the contract.
type FundEvent struct {
	Pool string
	Account util.Uint160
	Amount *big.Int
}

// LiquidateEvent represents "Liquidate" event emitted by the contract.
type LiquidateEvent struct {
	Pool string
	Account util.Uint160
	Amount *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// FundCost invokes `fundCost` method of contract.
func (c *ContractReader) FundCost(pool string, amount *big.Int) ([]*ConverterAsset, error) {
	return func (item stackitem.Item, err error) ([]*ConverterAsset, error) {
		if err != nil {
			return nil, err
		}
		return func (item stackitem.Item) ([]*ConverterAsset, error) {
			arr, ok := item.Value().([]stackitem.Item)
			if !ok {
				return nil, errors.New("not an array")
			}
			res := make([]*ConverterAsset, len(arr))
			for i := range res {
				res[i], err = itemToConverterAsset(arr[i], nil)
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
			}
			return res, nil
		} (item)
	} (unwrap.Item(c.invoker.Call(c.hash, "fundCost", pool, amount)))
}

// GetReserve invokes `getReserve` method of contract.
func (c *ContractReader) GetReserve(pool string, code string) (*ConverterReserve, error) {
	return itemToConverterReserve(unwrap.Item(c.invoker.Call(c.hash, "getReserve", pool, code)))
}

// GetSettings invokes `getSettings` method of contract.
func (c *ContractReader) GetSettings(pool string) (*ConverterSettings, error) {
	return itemToConverterSettings(unwrap.Item(c.invoker.Call(c.hash, "getSettings", pool)))
}

// Pending invokes `pending` method of contract.
func (c *ContractReader) Pending(pool string, account util.Uint160, symbol string) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "pending", pool, account, symbol))
}

// Quote invokes `quote` method of contract.
func (c *ContractReader) Quote(pool string, paySymbol string, amount *big.Int, targetSymbol string) (*ConverterConversion, error) {
	return itemToConverterConversion(unwrap.Item(c.invoker.Call(c.hash, "quote", pool, paySymbol, amount, targetSymbol)))
}

// Reserves invokes `reserves` method of contract.
func (c *ContractReader) Reserves(pool string) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "reserves", pool))
}

// ReservesExpanded is similar to Reserves (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ReservesExpanded(pool string, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "reserves", _numOfIteratorItems, pool))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Convert creates a transaction invoking `convert` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Convert(account util.Uint160, pool string, paySymbol string, amount *big.Int, targetSymbol string, minReturn *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "convert", account, pool, paySymbol, amount, targetSymbol, minReturn)
}

// ConvertTransaction creates a transaction invoking `convert` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ConvertTransaction(account util.Uint160, pool string, paySymbol string, amount *big.Int, targetSymbol string, minReturn *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "convert", account, pool, paySymbol, amount, targetSymbol, minReturn)
}

// ConvertUnsigned creates a transaction invoking `convert` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ConvertUnsigned(account util.Uint160, pool string, paySymbol string, amount *big.Int, targetSymbol string, minReturn *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "convert", nil, account, pool, paySymbol, amount, targetSymbol, minReturn)
}

// Delete creates a transaction invoking `delete` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Delete(pool string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "delete", pool)
}

// DeleteTransaction creates a transaction invoking `delete` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeleteTransaction(pool string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "delete", pool)
}

// DeleteUnsigned creates a transaction invoking `delete` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeleteUnsigned(pool string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "delete", nil, pool)
}

// DeleteReserve creates a transaction invoking `deleteReserve` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DeleteReserve(pool string, symbol string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deleteReserve", pool, symbol)
}

// DeleteReserveTransaction creates a transaction invoking `deleteReserve` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeleteReserveTransaction(pool string, symbol string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deleteReserve", pool, symbol)
}

// DeleteReserveUnsigned creates a transaction invoking `deleteReserve` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeleteReserveUnsigned(pool string, symbol string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deleteReserve", nil, pool, symbol)
}

// Fund creates a transaction invoking `fund` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Fund(account util.Uint160, pool string, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "fund", account, pool, amount)
}

// FundTransaction creates a transaction invoking `fund` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) FundTransaction(account util.Uint160, pool string, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "fund", account, pool, amount)
}

// FundUnsigned creates a transaction invoking `fund` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) FundUnsigned(account util.Uint160, pool string, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "fund", nil, account, pool, amount)
}

// Init creates a transaction invoking `init` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Init(owner util.Uint160, token util.Uint160, initialSupply *big.Int, maxFee *big.Int, fee *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "init", owner, token, initialSupply, maxFee, fee)
}

// InitTransaction creates a transaction invoking `init` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) InitTransaction(owner util.Uint160, token util.Uint160, initialSupply *big.Int, maxFee *big.Int, fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "init", owner, token, initialSupply, maxFee, fee)
}

// InitUnsigned creates a transaction invoking `init` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) InitUnsigned(owner util.Uint160, token util.Uint160, initialSupply *big.Int, maxFee *big.Int, fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "init", nil, owner, token, initialSupply, maxFee, fee)
}

// SetMaxFee creates a transaction invoking `setMaxFee` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetMaxFee(pool string, maxFee *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setMaxFee", pool, maxFee)
}

// SetMaxFeeTransaction creates a transaction invoking `setMaxFee` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetMaxFeeTransaction(pool string, maxFee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setMaxFee", pool, maxFee)
}

// SetMaxFeeUnsigned creates a transaction invoking `setMaxFee` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetMaxFeeUnsigned(pool string, maxFee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setMaxFee", nil, pool, maxFee)
}

// SetReserve creates a transaction invoking `setReserve` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetReserve(pool string, token util.Uint160, symbol string, ratio *big.Int, saleEnabled bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setReserve", pool, token, symbol, ratio, saleEnabled)
}

// SetReserveTransaction creates a transaction invoking `setReserve` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetReserveTransaction(pool string, token util.Uint160, symbol string, ratio *big.Int, saleEnabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setReserve", pool, token, symbol, ratio, saleEnabled)
}

// SetReserveUnsigned creates a transaction invoking `setReserve` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetReserveUnsigned(pool string, token util.Uint160, symbol string, ratio *big.Int, saleEnabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setReserve", nil, pool, token, symbol, ratio, saleEnabled)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// UpdateFee creates a transaction invoking `updateFee` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateFee(pool string, fee *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateFee", pool, fee)
}

// UpdateFeeTransaction creates a transaction invoking `updateFee` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateFeeTransaction(pool string, fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateFee", pool, fee)
}

// UpdateFeeUnsigned creates a transaction invoking `updateFee` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateFeeUnsigned(pool string, fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateFee", nil, pool, fee)
}

// UpdateOwner creates a transaction invoking `updateOwner` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateOwner(pool string, owner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateOwner", pool, owner)
}

// UpdateOwnerTransaction creates a transaction invoking `updateOwner` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateOwnerTransaction(pool string, owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateOwner", pool, owner)
}

// UpdateOwnerUnsigned creates a transaction invoking `updateOwner` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateOwnerUnsigned(pool string, owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateOwner", nil, pool, owner)
}

// UpdateSettings creates a transaction invoking `updateSettings` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateSettings(pool string, fee *big.Int, enabled bool, poolEnabled bool, requireBalance bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateSettings", pool, fee, enabled, poolEnabled, requireBalance)
}

// UpdateSettingsTransaction creates a transaction invoking `updateSettings` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateSettingsTransaction(pool string, fee *big.Int, enabled bool, poolEnabled bool, requireBalance bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateSettings", pool, fee, enabled, poolEnabled, requireBalance)
}

// UpdateSettingsUnsigned creates a transaction invoking `updateSettings` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateSettingsUnsigned(pool string, fee *big.Int, enabled bool, poolEnabled bool, requireBalance bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateSettings", nil, pool, fee, enabled, poolEnabled, requireBalance)
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Withdraw(account util.Uint160, pool string, symbol string, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdraw", account, pool, symbol, amount)
}

// WithdrawTransaction creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawTransaction(account util.Uint160, pool string, symbol string, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdraw", account, pool, symbol, amount)
}

// WithdrawUnsigned creates a transaction invoking `withdraw` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawUnsigned(account util.Uint160, pool string, symbol string, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdraw", nil, account, pool, symbol, amount)
}

// itemToConverterAsset converts stack item into *ConverterAsset.
func itemToConverterAsset(item stackitem.Item, err error) (*ConverterAsset, error) {
	if err != nil {
		return nil, err
	}
	var res = new(ConverterAsset)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of ConverterAsset from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *ConverterAsset) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Token, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Token: %w", err)
	}

	index++
	res.Symbol, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Symbol: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// itemToConverterConversion converts stack item into *ConverterConversion.
func itemToConverterConversion(item stackitem.Item, err error) (*ConverterConversion, error) {
	if err != nil {
		return nil, err
	}
	var res = new(ConverterConversion)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of ConverterConversion from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *ConverterConversion) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Token, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Token: %w", err)
	}

	index++
	res.Symbol, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Symbol: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	res.Fee, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Fee: %w", err)
	}

	return nil
}

// itemToConverterReserve converts stack item into *ConverterReserve.
func itemToConverterReserve(item stackitem.Item, err error) (*ConverterReserve, error) {
	if err != nil {
		return nil, err
	}
	var res = new(ConverterReserve)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of ConverterReserve from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *ConverterReserve) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 6 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Token, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Token: %w", err)
	}

	index++
	res.Code, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Code: %w", err)
	}

	index++
	res.Precision, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Precision: %w", err)
	}

	index++
	res.Balance, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Balance: %w", err)
	}

	index++
	res.Ratio, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Ratio: %w", err)
	}

	index++
	res.SaleEnabled, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field SaleEnabled: %w", err)
	}

	return nil
}

// itemToConverterSettings converts stack item into *ConverterSettings.
func itemToConverterSettings(item stackitem.Item, err error) (*ConverterSettings, error) {
	if err != nil {
		return nil, err
	}
	var res = new(ConverterSettings)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of ConverterSettings from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *ConverterSettings) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 9 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Owner, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	res.Token, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Token: %w", err)
	}

	index++
	res.Code, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Code: %w", err)
	}

	index++
	res.Precision, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Precision: %w", err)
	}

	index++
	res.MaxFee, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field MaxFee: %w", err)
	}

	index++
	res.Fee, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Fee: %w", err)
	}

	index++
	res.Enabled, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Enabled: %w", err)
	}

	index++
	res.PoolEnabled, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field PoolEnabled: %w", err)
	}

	index++
	res.RequireBalance, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field RequireBalance: %w", err)
	}

	return nil
}

// ConversionEventsFromApplicationLog retrieves a set of all emitted events
// with "Conversion" name from the provided [result.ApplicationLog].
func ConversionEventsFromApplicationLog(log *result.ApplicationLog) ([]*ConversionEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ConversionEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Conversion" {
				continue
			}
			event := new(ConversionEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ConversionEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ConversionEvent or
// returns an error if it's not possible to do to so.
func (e *ConversionEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 6 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Pool, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Pool: %w", err)
	}

	index++
	e.From, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	index++
	e.To, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	e.Return, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Return: %w", err)
	}

	index++
	e.Fee, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Fee: %w", err)
	}

	return nil
}

// PriceDataEventsFromApplicationLog retrieves a set of all emitted events
// with "PriceData" name from the provided [result.ApplicationLog].
func PriceDataEventsFromApplicationLog(log *result.ApplicationLog) ([]*PriceDataEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PriceDataEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "PriceData" {
				continue
			}
			event := new(PriceDataEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PriceDataEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PriceDataEvent or
// returns an error if it's not possible to do to so.
func (e *PriceDataEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Pool, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Pool: %w", err)
	}

	index++
	e.Reserve, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Reserve: %w", err)
	}

	index++
	e.ReserveRatio, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ReserveRatio: %w", err)
	}

	index++
	e.ReserveBalance, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ReserveBalance: %w", err)
	}

	index++
	e.SmartSupply, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field SmartSupply: %w", err)
	}

	return nil
}

// FundEventsFromApplicationLog retrieves a set of all emitted events
// with "Fund" name from the provided [result.ApplicationLog].
func FundEventsFromApplicationLog(log *result.ApplicationLog) ([]*FundEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*FundEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Fund" {
				continue
			}
			event := new(FundEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize FundEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to FundEvent or
// returns an error if it's not possible to do to so.
func (e *FundEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Pool, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Pool: %w", err)
	}

	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// LiquidateEventsFromApplicationLog retrieves a set of all emitted events
// with "Liquidate" name from the provided [result.ApplicationLog].
func LiquidateEventsFromApplicationLog(log *result.ApplicationLog) ([]*LiquidateEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*LiquidateEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Liquidate" {
				continue
			}
			event := new(LiquidateEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize LiquidateEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to LiquidateEvent or
// returns an error if it's not possible to do to so.
func (e *LiquidateEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Pool, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Pool: %w", err)
	}

	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// Package network contains RPC wrappers for conversion Network contract.
package network

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

// NetworkConverter is a contract-specific network.Converter type used by its methods.
type NetworkConverter struct {
	Name string
	Hash util.Uint160
	DefaultPool string
}

// AffiliateEvent represents "Affiliate" event emitted by the contract.
type AffiliateEvent struct {
	Return *big.Int
	Fee *big.Int
	Affiliate util.Uint160
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

// Bridge invokes `bridge` method of contract.
func (c *ContractReader) Bridge() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "bridge"))
}

// Converters invokes `converters` method of contract.
func (c *ContractReader) Converters() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "converters"))
}

// ConvertersExpanded is similar to Converters (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ConvertersExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "converters", _numOfIteratorItems))
}

// GetConverter invokes `getConverter` method of contract.
func (c *ContractReader) GetConverter(name string) (*NetworkConverter, error) {
	return itemToNetworkConverter(unwrap.Item(c.invoker.Call(c.hash, "getConverter", name)))
}

// MaxAffiliateFee invokes `maxAffiliateFee` method of contract.
func (c *ContractReader) MaxAffiliateFee() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "maxAffiliateFee"))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// ConvertByRef creates a transaction invoking `convertByRef` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ConvertByRef(amountAccount util.Uint160, amountID string, memo string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "convertByRef", amountAccount, amountID, memo)
}

// ConvertByRefTransaction creates a transaction invoking `convertByRef` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ConvertByRefTransaction(amountAccount util.Uint160, amountID string, memo string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "convertByRef", amountAccount, amountID, memo)
}

// ConvertByRefUnsigned creates a transaction invoking `convertByRef` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ConvertByRefUnsigned(amountAccount util.Uint160, amountID string, memo string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "convertByRef", nil, amountAccount, amountID, memo)
}

// RemoveConverter creates a transaction invoking `removeConverter` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveConverter(name string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeConverter", name)
}

// RemoveConverterTransaction creates a transaction invoking `removeConverter` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveConverterTransaction(name string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeConverter", name)
}

// RemoveConverterUnsigned creates a transaction invoking `removeConverter` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveConverterUnsigned(name string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeConverter", nil, name)
}

// SetBridge creates a transaction invoking `setBridge` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetBridge(hash util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setBridge", hash)
}

// SetBridgeTransaction creates a transaction invoking `setBridge` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetBridgeTransaction(hash util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setBridge", hash)
}

// SetBridgeUnsigned creates a transaction invoking `setBridge` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetBridgeUnsigned(hash util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setBridge", nil, hash)
}

// SetConverter creates a transaction invoking `setConverter` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetConverter(name string, hash util.Uint160, defaultPool string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setConverter", name, hash, defaultPool)
}

// SetConverterTransaction creates a transaction invoking `setConverter` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetConverterTransaction(name string, hash util.Uint160, defaultPool string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setConverter", name, hash, defaultPool)
}

// SetConverterUnsigned creates a transaction invoking `setConverter` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetConverterUnsigned(name string, hash util.Uint160, defaultPool string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setConverter", nil, name, hash, defaultPool)
}

// SetMaxAffiliateFee creates a transaction invoking `setMaxAffiliateFee` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetMaxAffiliateFee(fee *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setMaxAffiliateFee", fee)
}

// SetMaxAffiliateFeeTransaction creates a transaction invoking `setMaxAffiliateFee` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetMaxAffiliateFeeTransaction(fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setMaxAffiliateFee", fee)
}

// SetMaxAffiliateFeeUnsigned creates a transaction invoking `setMaxAffiliateFee` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetMaxAffiliateFeeUnsigned(fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setMaxAffiliateFee", nil, fee)
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

// UpdateOwner creates a transaction invoking `updateOwner` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateOwner(owner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateOwner", owner)
}

// UpdateOwnerTransaction creates a transaction invoking `updateOwner` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateOwnerTransaction(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateOwner", owner)
}

// UpdateOwnerUnsigned creates a transaction invoking `updateOwner` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateOwnerUnsigned(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateOwner", nil, owner)
}

// itemToNetworkConverter converts stack item into *NetworkConverter.
func itemToNetworkConverter(item stackitem.Item, err error) (*NetworkConverter, error) {
	if err != nil {
		return nil, err
	}
	var res = new(NetworkConverter)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of NetworkConverter from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *NetworkConverter) FromStackItem(item stackitem.Item) error {
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
	res.Name, err = func (item stackitem.Item) (string, error) {
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
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	res.Hash, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Hash: %w", err)
	}

	index++
	res.DefaultPool, err = func (item stackitem.Item) (string, error) {
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
		return fmt.Errorf("field DefaultPool: %w", err)
	}

	return nil
}

// AffiliateEventsFromApplicationLog retrieves a set of all emitted events
// with "Affiliate" name from the provided [result.ApplicationLog].
func AffiliateEventsFromApplicationLog(log *result.ApplicationLog) ([]*AffiliateEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*AffiliateEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Affiliate" {
				continue
			}
			event := new(AffiliateEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize AffiliateEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to AffiliateEvent or
// returns an error if it's not possible to do to so.
func (e *AffiliateEvent) FromStackItem(item *stackitem.Array) error {
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
	e.Return, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Return: %w", err)
	}

	index++
	e.Fee, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Fee: %w", err)
	}

	index++
	e.Affiliate, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Affiliate: %w", err)
	}

	return nil
}

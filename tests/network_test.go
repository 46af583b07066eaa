package tests

import (
	"fmt"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/bancor-contract/common"
	"github.com/nspcc-dev/bancor-contract/contracts/network"
	rpcbridge "github.com/nspcc-dev/bancor-contract/rpc/bridge"
	rpcnetwork "github.com/nspcc-dev/bancor-contract/rpc/network"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

// alienAddress returns well-formed base58check address of the hash with the
// legacy version byte.
func alienAddress(h util.Uint160) string {
	b := append([]byte{0x17}, h.BytesBE()...)
	return base58.Encode(append(b, hash.Checksum(b)...))
}

// route transfers amount of the token to the network contract with the memo.
func (a *amm) route(t testing.TB, user neotest.Signer, token util.Uint160, amount int64, memo string) *state.AppExecResult {
	h := a.e.NewInvoker(token, user).Invoke(t, true, "transfer",
		user.ScriptHash(), a.network, amount, memo)
	return a.e.CheckHalt(t, h)
}

func (a *amm) routeFail(t testing.TB, msg string, user neotest.Signer, token util.Uint160, amount int64, memo any) {
	a.e.NewInvoker(token, user).InvokeFail(t, msg, "transfer",
		user.ScriptHash(), a.network, amount, memo)
}

func TestNetworkRegistry(t *testing.T) {
	a := newAMM(t)
	c := a.e.CommitteeInvoker(a.network)

	owner, err := c.TestInvoke(t, "owner")
	require.NoError(t, err)
	ownerBytes, err := owner.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, a.e.CommitteeHash.BytesBE(), ownerBytes)

	s, err := c.TestInvoke(t, "getConverter", converterName)
	require.NoError(t, err)

	var conv rpcnetwork.NetworkConverter
	require.NoError(t, conv.FromStackItem(s.Pop().Item()))
	require.Equal(t, converterName, conv.Name)
	require.Equal(t, a.converter, conv.Hash)
	require.Equal(t, poolCode, conv.DefaultPool)

	user := a.e.NewAccount(t)
	uc := a.e.NewInvoker(a.network, user)
	uc.InvokeFail(t, common.ErrOwnerWitnessFailed, "setConverter", "other", a.converter, poolCode)
	uc.InvokeFail(t, common.ErrOwnerWitnessFailed, "removeConverter", converterName)
	uc.InvokeFail(t, common.ErrOwnerWitnessFailed, "setMaxAffiliateFee", int64(1))
	uc.InvokeFail(t, common.ErrOwnerWitnessFailed, "setBridge", a.converter)

	c.InvokeFail(t, "invalid converter name", "setConverter", "Other", a.converter, poolCode)
	c.InvokeFail(t, "invalid converter name", "setConverter", "toolongname13", a.converter, poolCode)
	c.InvokeFail(t, "invalid converter name", "setConverter", "amm6", a.converter, poolCode)
	c.InvokeFail(t, common.ErrInvalidSymbol, "setConverter", "other", a.converter, "pool")
	c.InvokeFail(t, common.ErrUnknownPool, "setConverter", "other", a.converter, "NOPE")

	c.Invoke(t, stackitem.Null{}, "setConverter", "amm.v1", a.converter, poolCode)

	s, err = c.TestInvoke(t, "converters")
	require.NoError(t, err)
	require.Len(t, iteratorToArray(s.Pop().Value().(*storage.Iterator)), 2)

	c.Invoke(t, stackitem.Null{}, "removeConverter", converterName)
	c.InvokeFail(t, common.ErrUnknownConverter, "getConverter", converterName)
	c.InvokeFail(t, common.ErrUnknownConverter, "removeConverter", converterName)

	s, err = c.TestInvoke(t, "converters")
	require.NoError(t, err)

	items := iteratorToArray(s.Pop().Value().(*storage.Iterator))
	require.Len(t, items, 1)
	require.NoError(t, conv.FromStackItem(items[0]))
	require.Equal(t, "amm.v1", conv.Name)

	require.Equal(t, int64(network.DefaultMaxAffiliateFee), testInvokeInt(t, c, "maxAffiliateFee").Int64())
	c.InvokeFail(t, common.ErrInappropriateAffiliateFee, "setMaxAffiliateFee", int64(0))
	c.InvokeFail(t, common.ErrInappropriateAffiliateFee, "setMaxAffiliateFee", int64(1_000_001))
	c.Invoke(t, stackitem.Null{}, "setMaxAffiliateFee", int64(50_000))
	require.Equal(t, int64(50_000), testInvokeInt(t, c, "maxAffiliateFee").Int64())

	c.Invoke(t, stackitem.Null{}, "bridge")
	c.InvokeFail(t, common.ErrInvalidAccount, "setBridge", []byte{1, 2, 3})
	c.Invoke(t, stackitem.Null{}, "updateOwner", user.ScriptHash())
	c.InvokeFail(t, common.ErrOwnerWitnessFailed, "setMaxAffiliateFee", int64(1))
	uc.Invoke(t, stackitem.Null{}, "setMaxAffiliateFee", int64(1))
}

func TestNetworkConvert(t *testing.T) {
	a := newAMM(t)

	const amount = 1_00000000

	user := a.newUser(t, amount, 0)
	memo := fmt.Sprintf("1,%s TKB,0.999,%s", converterName, addr(user.ScriptHash()))
	aer := a.route(t, user, a.tka, amount, memo)

	convs := conversionEvents(t, aer)
	require.Len(t, convs, 1)
	require.Equal(t, tkaSymbol, convs[0].From)
	require.Equal(t, tkbSymbol, convs[0].To)
	require.Equal(t, int64(99900099), convs[0].Return.Int64())

	require.Equal(t, int64(0), a.balance(t, a.tka, user.ScriptHash()))
	require.Equal(t, int64(99900099), a.balance(t, a.tkb, user.ScriptHash()))

	// Nothing stays in the network contract.
	for _, token := range []util.Uint160{a.tka, a.tkb, a.pool} {
		require.Equal(t, int64(0), a.balance(t, token, a.network))
	}
	require.Equal(t, int64(0), a.pending(t, a.network, tkaSymbol))
}

func TestNetworkMultiHop(t *testing.T) {
	const amount = 1_00000000

	routed := newAMM(t)
	user := routed.newUser(t, amount, 0)

	memo := fmt.Sprintf("1,%s:%s %s %s TKB,0,%s",
		converterName, poolCode, poolCode, converterName, addr(user.ScriptHash()))
	aer := routed.route(t, user, routed.tka, amount, memo)

	convs := conversionEvents(t, aer)
	require.Len(t, convs, 2)
	require.Equal(t, tkaSymbol, convs[0].From)
	require.Equal(t, poolSymbol, convs[0].To)
	require.Equal(t, poolSymbol, convs[1].From)
	require.Equal(t, tkbSymbol, convs[1].To)
	require.Equal(t, convs[0].Return.Int64(), convs[1].Amount.Int64())
	require.Len(t, priceDataEvents(t, aer), 2)

	// The same conversion done hop by hop.
	direct := newAMM(t)
	duser := direct.newUser(t, amount, 0)

	_, first := direct.convert(t, duser, direct.tka, tkaSymbol, amount, poolSymbol)
	_, second := direct.convert(t, duser, direct.pool, poolSymbol, first.Amount.Int64(), tkbSymbol)

	require.Equal(t, int64(4998), first.Amount.Int64())
	require.Equal(t, int64(99885109), second.Amount.Int64())
	require.Equal(t, second.Amount.Int64(), routed.balance(t, routed.tkb, user.ScriptHash()))
	require.Equal(t, second.Amount.Int64(), direct.balance(t, direct.tkb, duser.ScriptHash()))

	for _, code := range []string{"TKA", "TKB"} {
		require.Equal(t,
			direct.reserve(t, code).Balance.Int64(),
			routed.reserve(t, code).Balance.Int64())
	}
	require.Equal(t, direct.supply(t), routed.supply(t))
	require.Equal(t, int64(poolSupply), routed.supply(t))
}

func TestNetworkAffiliate(t *testing.T) {
	a := newAMM(t)

	const (
		amount = 1_00000000
		fee    = 29_000

		gross = 99900099
		// gross * fee / 10^6 rounded down.
		affiliateFee = 2897102
	)

	user := a.newUser(t, amount, 0)
	affiliate := a.e.NewAccount(t)

	memo := fmt.Sprintf("1,%s TKB,0.97002997,%s,%s,%d",
		converterName, addr(user.ScriptHash()), addr(affiliate.ScriptHash()), fee)
	aer := a.route(t, user, a.tka, amount, memo)

	affs, err := rpcnetwork.AffiliateEventsFromApplicationLog(applicationLog(aer))
	require.NoError(t, err)
	require.Len(t, affs, 1)
	require.Equal(t, int64(gross), affs[0].Return.Int64())
	require.Equal(t, int64(affiliateFee), affs[0].Fee.Int64())
	require.Equal(t, affiliate.ScriptHash(), affs[0].Affiliate)

	require.Equal(t, int64(affiliateFee), a.balance(t, a.tkb, affiliate.ScriptHash()))
	require.Equal(t, int64(gross-affiliateFee), a.balance(t, a.tkb, user.ScriptHash()))
	require.Equal(t, int64(0), a.balance(t, a.tkb, a.network))

	require.Equal(t,
		`{"etype":"conversion","from":"8,TKA","to":"8,TKB","amount":"1","return":"0.99900099","conversion_fee":"0"}`+"\n"+
			`{"etype":"pricedata","reserve_ratio":500000,"reserve_balance":"1001","smart_supply":"1000"}`+"\n"+
			`{"etype":"pricedata","reserve_ratio":500000,"reserve_balance":"999.00099901","smart_supply":"1000"}`+"\n"+
			`{"etype":"affiliate","return":"0.99900099","affiliate_fee":"0.02897102","affiliate":"`+addr(affiliate.ScriptHash())+`"}`+"\n",
		projectNDJSON(t, aer))
}

func TestNetworkAffiliateSale(t *testing.T) {
	a := newAMM(t)

	const amount = 10_0000

	affiliate := a.e.NewAccount(t)

	// Pool token sale hop is not charged, the next reserve input hop is.
	memo := fmt.Sprintf("1,%s TKA %s TKB,0,%s,%s,%d",
		converterName, converterName, addr(a.e.CommitteeHash), addr(affiliate.ScriptHash()), 10_000)
	aer := a.route(t, a.e.Committee, a.pool, amount, memo)

	convs := conversionEvents(t, aer)
	require.Len(t, convs, 2)

	affs, err := rpcnetwork.AffiliateEventsFromApplicationLog(applicationLog(aer))
	require.NoError(t, err)
	require.Len(t, affs, 1)
	require.Equal(t, convs[1].Return.Int64(), affs[0].Return.Int64())
	require.Equal(t, convs[1].Return.Int64()/100, affs[0].Fee.Int64())

	require.Equal(t, affs[0].Fee.Int64(), a.balance(t, a.tkb, affiliate.ScriptHash()))
	require.Equal(t, int64(0), a.balance(t, a.tka, affiliate.ScriptHash()))
	require.Equal(t, convs[1].Return.Int64()-affs[0].Fee.Int64(), a.balance(t, a.tkb, a.e.CommitteeHash))
}

func TestNetworkRejections(t *testing.T) {
	a := newAMM(t)

	const amount = 1_00000000

	user := a.newUser(t, amount, 0)
	other := a.e.NewAccount(t)

	var (
		self = addr(user.ScriptHash())
		aff  = addr(other.ScriptHash())
		path = converterName + " TKB"
	)

	t.Run("affiliate fee", func(t *testing.T) {
		for _, fee := range []string{"0", "30001", "-1", "1.5", "10000000"} {
			memo := fmt.Sprintf("1,%s,0,%s,%s,%s", path, self, aff, fee)
			a.routeFail(t, common.ErrInappropriateAffiliateFee, user, a.tka, amount, memo)
		}
	})

	t.Run("affiliate account", func(t *testing.T) {
		broken := []byte(aff)
		broken[len(broken)-1] ^= 1

		for _, affiliate := range []string{
			alienAddress(other.ScriptHash()),
			string(broken),
			other.ScriptHash().StringLE(),
			"",
		} {
			memo := fmt.Sprintf("1,%s,0,%s,%s,%d", path, self, affiliate, 1000)
			a.routeFail(t, common.ErrAffiliateNotAnAccount, user, a.tka, amount, memo)
		}
	})

	t.Run("destination", func(t *testing.T) {
		a.routeFail(t, common.ErrInvalidDestination, user, a.tka, amount,
			fmt.Sprintf("1,%s,0,%s", path, aff))
		a.routeFail(t, common.ErrInvalidDestination, user, a.tka, amount,
			fmt.Sprintf("1,%s,0,%s", path, alienAddress(user.ScriptHash())))
		// Directive requires the bridge.
		a.routeFail(t, common.ErrInvalidDestination, user, a.tka, amount,
			fmt.Sprintf("1,%s,0,%s;eth:0x01", path, self))
	})

	t.Run("memo", func(t *testing.T) {
		a.routeFail(t, common.ErrInvalidMemo, user, a.tka, amount, nil)
		a.routeFail(t, common.ErrInvalidMemo, user, a.tka, amount, "")
		a.routeFail(t, common.ErrInvalidMemo, user, a.tka, amount, fmt.Sprintf("1,%s,0", path))
		a.routeFail(t, common.ErrInvalidMemo, user, a.tka, amount, fmt.Sprintf("1,%s,0,%s;", path, self))
		a.routeFail(t, "unsupported memo version", user, a.tka, amount, fmt.Sprintf("2,%s,0,%s", path, self))
		a.routeFail(t, common.ErrNonPositiveAmount, user, a.tka, 0, fmt.Sprintf("1,%s,0,%s", path, self))
	})

	t.Run("path", func(t *testing.T) {
		for _, p := range []string{
			converterName,
			converterName + " TKB " + converterName,
			converterName + ":POOL:POOL TKB",
			converterName + " tkb",
			"AMM TKB",
			"",
		} {
			a.routeFail(t, common.ErrMalformedPath, user, a.tka, amount, fmt.Sprintf("1,%s,0,%s", p, self))
		}
		a.routeFail(t, common.ErrUnknownConverter, user, a.tka, amount, fmt.Sprintf("1,other TKB,0,%s", self))
		a.routeFail(t, common.ErrUnknownPool, user, a.tka, amount, fmt.Sprintf("1,%s:NOPE TKB,0,%s", converterName, self))
		a.routeFail(t, common.ErrUnknownReserve, user, a.tka, amount, fmt.Sprintf("1,%s TKC,0,%s", converterName, self))
		a.routeFail(t, common.ErrSameSymbol, user, a.tka, amount, fmt.Sprintf("1,%s TKA,0,%s", converterName, self))
	})

	t.Run("min return", func(t *testing.T) {
		for _, m := range []string{"0.999000991", "x", "1.", ".5", "1.2.3"} {
			a.routeFail(t, common.ErrMalformedPath, user, a.tka, amount, fmt.Sprintf("1,%s,%s,%s", path, m, self))
		}
		a.routeFail(t, common.ErrBelowMinReturn, user, a.tka, amount, fmt.Sprintf("1,%s,0.999001,%s", path, self))

		// Affiliate fee is deducted before the check.
		a.routeFail(t, common.ErrBelowMinReturn, user, a.tka, amount,
			fmt.Sprintf("1,%s,0.97002998,%s,%s,29000", path, self, aff))
	})

	t.Run("hop failure", func(t *testing.T) {
		a.committeeConverter().Invoke(t, stackitem.Null{}, "updateSettings", poolCode, int64(0), true, false, false)
		a.routeFail(t, common.ErrPoolDisabled, user, a.tka, amount,
			fmt.Sprintf("1,%s POOL %s TKB,0,%s", converterName, converterName, self))
		a.committeeConverter().Invoke(t, stackitem.Null{}, "updateSettings", poolCode, int64(0), true, true, false)
	})

	// Every failed transfer is reverted completely.
	require.Equal(t, int64(amount), a.balance(t, a.tka, user.ScriptHash()))
	require.Equal(t, int64(0), a.balance(t, a.tkb, user.ScriptHash()))
	require.Equal(t, int64(0), a.balance(t, a.tkb, other.ScriptHash()))
	require.Equal(t, int64(reserveBalance), a.reserve(t, "TKA").Balance.Int64())
	require.Equal(t, int64(reserveBalance), a.reserve(t, "TKB").Balance.Int64())
	require.Equal(t, int64(poolSupply), a.supply(t))
}

func TestNetworkMaxAffiliateFee(t *testing.T) {
	a := newAMM(t)

	const amount = 1_00000000

	user := a.newUser(t, 2*amount, 0)
	other := a.e.NewAccount(t)
	memo := func(fee int) string {
		return fmt.Sprintf("1,%s TKB,0,%s,%s,%d",
			converterName, addr(user.ScriptHash()), addr(other.ScriptHash()), fee)
	}

	a.route(t, user, a.tka, amount, memo(network.DefaultMaxAffiliateFee))

	a.e.CommitteeInvoker(a.network).Invoke(t, stackitem.Null{}, "setMaxAffiliateFee", int64(10_000))
	a.routeFail(t, common.ErrInappropriateAffiliateFee, user, a.tka, amount, memo(10_001))
	a.route(t, user, a.tka, amount, memo(10_000))
}

func TestNetworkDirective(t *testing.T) {
	a := newAMM(t)
	a.withBridge(t, 4)

	const amount = 1_00000000

	user := a.newUser(t, 2*amount, 0)

	a.routeFail(t, common.ErrInvalidDestination, user, a.tka, amount,
		fmt.Sprintf("1,%s TKB,0,%s;eth:0x01", converterName, addr(user.ScriptHash())))
	// Without directive the result can not go to the bridge.
	a.routeFail(t, common.ErrInvalidDestination, user, a.tka, amount,
		fmt.Sprintf("1,%s TKB,0,%s", converterName, addr(a.bridge)))

	aer := a.route(t, user, a.tka, amount,
		fmt.Sprintf("1,%s TKB,0,%s;eth:0x01;memo", converterName, addr(a.bridge)))

	evs, err := rpcbridge.XTransferEventsFromApplicationLog(applicationLog(aer))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, a.network, evs[0].From)
	require.Equal(t, a.tkb, evs[0].Token)
	require.Equal(t, int64(99900099), evs[0].Amount.Int64())
	require.Equal(t, "eth:0x01;memo", evs[0].Directive)

	require.Equal(t, int64(99900099), a.balance(t, a.tkb, a.bridge))
	require.Equal(t, int64(0), a.balance(t, a.tkb, user.ScriptHash()))
	require.Equal(t, int64(amount), a.balance(t, a.tka, user.ScriptHash()))
}

func TestNetworkConvertByRef(t *testing.T) {
	a := newAMM(t)

	const (
		amount = 1_00000000
		id     = "0xdeadbeef"
	)

	user := a.e.NewAccount(t)
	other := a.e.NewAccount(t)
	uc := a.e.NewInvoker(a.network, user)
	memo := fmt.Sprintf("1,%s TKB,0,%s", converterName, addr(user.ScriptHash()))

	uc.InvokeFail(t, "bridge is not set", "convertByRef", user.ScriptHash(), id, memo)

	reporters := a.withBridge(t, 4)
	a.mint(t, a.tka, a.bridge, amount)
	a.e.NewInvoker(a.bridge, reporters).Invoke(t, stackitem.Null{}, "reportAmount",
		user.ScriptHash(), id, a.tka, int64(amount))

	a.e.NewInvoker(a.network, other).InvokeFail(t, common.ErrWitnessFailed, "convertByRef",
		user.ScriptHash(), id, memo)
	uc.InvokeFail(t, common.ErrUnknownAmount, "convertByRef", user.ScriptHash(), "0x01", memo)
	uc.InvokeFail(t, common.ErrInvalidDestination, "convertByRef", user.ScriptHash(), id,
		fmt.Sprintf("1,%s TKB,0,%s", converterName, addr(other.ScriptHash())))
	uc.InvokeFail(t, common.ErrBelowMinReturn, "convertByRef", user.ScriptHash(), id,
		fmt.Sprintf("1,%s TKB,1,%s", converterName, addr(user.ScriptHash())))

	aer := a.e.CheckHalt(t, uc.Invoke(t, stackitem.Null{}, "convertByRef", user.ScriptHash(), id, memo))
	require.Len(t, conversionEvents(t, aer), 1)

	require.Equal(t, int64(99900099), a.balance(t, a.tkb, user.ScriptHash()))
	require.Equal(t, int64(0), a.balance(t, a.tka, a.bridge))
	require.Equal(t, int64(0), a.balance(t, a.tka, a.network))

	uc.InvokeFail(t, common.ErrUnknownAmount, "convertByRef", user.ScriptHash(), id, memo)
}

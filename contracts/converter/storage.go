package converter

import (
	"github.com/nspcc-dev/bancor-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Settings stores pool configuration.
	Settings struct {
		Owner interop.Hash160
		// Pool token.
		Token     interop.Hash160
		Code      string
		Precision int
		// Fees in ppm, Fee <= MaxFee <= 1_000_000.
		MaxFee int
		Fee    int
		// Enabled allows conversions and funding.
		Enabled bool
		// PoolEnabled allows buying and selling the pool token itself.
		PoolEnabled bool
		// RequireBalance demands every reserve to be non-empty for
		// conversions and funding.
		RequireBalance bool
	}

	// Reserve is a weighted token balance of the pool.
	Reserve struct {
		Token       interop.Hash160
		Code        string
		Precision   int
		Balance     int
		Ratio       int
		SaleEnabled bool
	}

	// Asset is an amount of the token.
	Asset struct {
		Token  interop.Hash160
		Symbol string
		Amount int
	}

	// Conversion is a result of the conversion: paid out amount of the
	// target token and the fee deducted from it.
	Conversion struct {
		Token  interop.Hash160
		Symbol string
		Amount int
		Fee    int
	}
)

const (
	settingsPrefix = "s"
	reservePrefix  = "r"
	pendingPrefix  = "p"
	depositsPrefix = "d"

	separator = "."
)

func settingsKey(pool string) string {
	return settingsPrefix + pool
}

func reservesKey(pool string) string {
	return reservePrefix + pool + separator
}

func reserveKey(pool, code string) string {
	return reservesKey(pool) + code
}

func pendingKey(pool string, account interop.Hash160, code string) []byte {
	key := append([]byte(pendingPrefix+pool+separator), account...)
	return append(key, []byte(code)...)
}

// depositsKey stores the sum of all pending deposits of the token in the pool.
func depositsKey(pool, code string) string {
	return depositsPrefix + pool + separator + code
}

// addPending changes the account deposit and the pool total of the token.
func addPending(ctx storage.Context, pool string, account interop.Hash160, code string, delta int) {
	key := pendingKey(pool, account, code)
	common.PutInt(ctx, key, common.GetInt(ctx, key)+delta)

	total := depositsKey(pool, code)
	common.PutInt(ctx, total, common.GetInt(ctx, total)+delta)
}

func pendingTotal(ctx storage.Context, pool, code string) int {
	return common.GetInt(ctx, depositsKey(pool, code))
}

func getSettings(ctx storage.Context, pool string) Settings {
	data := storage.Get(ctx, settingsKey(pool))
	if data == nil {
		panic(common.ErrUnknownPool)
	}
	return std.Deserialize(data.([]byte)).(Settings)
}

// resolvePool accepts either pool code or pool symbol. Symbol precision must
// match the pool token one.
func resolvePool(ctx storage.Context, ref string) Settings {
	if common.IsCode(ref) {
		return getSettings(ctx, ref)
	}

	sym := common.ParseSymbol(ref)
	st := getSettings(ctx, sym.Code)
	if st.Precision != sym.Precision {
		panic(common.ErrPrecisionMismatch)
	}
	return st
}

func getReserve(ctx storage.Context, pool, code string) Reserve {
	data := storage.Get(ctx, reserveKey(pool, code))
	if data == nil {
		panic(common.ErrUnknownReserve)
	}
	return std.Deserialize(data.([]byte)).(Reserve)
}

func putReserve(ctx storage.Context, pool string, r Reserve) {
	common.SetSerialized(ctx, reserveKey(pool, r.Code), r)
}

func listReserves(ctx storage.Context, pool string) []Reserve {
	res := []Reserve{}

	it := storage.Find(ctx, reservesKey(pool), storage.ValuesOnly|storage.DeserializeValues)
	for iterator.Next(it) {
		res = append(res, iterator.Value(it).(Reserve))
	}

	return res
}

// reserveByToken returns reserve of the pool held in the token. Code of the
// returned reserve is empty if there is no such reserve.
func reserveByToken(ctx storage.Context, pool string, token interop.Hash160) Reserve {
	reserves := listReserves(ctx, pool)
	for i := range reserves {
		if reserves[i].Token.Equals(token) {
			return reserves[i]
		}
	}
	return Reserve{}
}

func totalRatio(reserves []Reserve) int {
	sum := 0
	for i := range reserves {
		sum += reserves[i].Ratio
	}
	return sum
}

func checkBalances(reserves []Reserve) {
	for i := range reserves {
		if reserves[i].Balance == 0 {
			panic(common.ErrEmptyReserve)
		}
	}
}

func totalSupply(token interop.Hash160) int {
	return contract.Call(token, "totalSupply", contract.ReadOnly).(int)
}

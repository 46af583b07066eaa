/*
Package eventlog projects AMM contract notifications of a transaction into
newline delimited JSON records.

Records keep the order of notifications in the application log:

	{"etype":"conversion","from":"8,TKA","to":"4,POOL","amount":"1","return":"0.011","conversion_fee":"0"}
	{"etype":"pricedata","reserve_ratio":500000,"reserve_balance":"1001","smart_supply":"1000.011"}
	{"etype":"affiliate","return":"1.03","affiliate_fee":"0.0298","affiliate":"NbrUYaZgyhSkNoRo9ugRyEMdUZxrhkNaWB"}

Amounts are decimal numbers in units of the token, trailing fractional zeros
are omitted.
*/
package eventlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/nspcc-dev/bancor-contract/common"
	"github.com/nspcc-dev/bancor-contract/rpc/converter"
	"github.com/nspcc-dev/bancor-contract/rpc/network"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Record types.
const (
	ConversionType = "conversion"
	PriceDataType  = "pricedata"
	AffiliateType  = "affiliate"
)

// Notification names.
const (
	conversionEvent = "Conversion"
	priceDataEvent  = "PriceData"
	affiliateEvent  = "Affiliate"
)

// ErrNoConversion is returned for the affiliate notification that has no
// preceding conversion in the same log.
var ErrNoConversion = errors.New("affiliate fee without conversion")

type (
	// Record is a single projected notification.
	Record interface {
		Type() string
	}

	// Conversion is a record of the converter Conversion notification.
	Conversion struct {
		EType         string `json:"etype"`
		From          string `json:"from"`
		To            string `json:"to"`
		Amount        string `json:"amount"`
		Return        string `json:"return"`
		ConversionFee string `json:"conversion_fee"`
	}

	// PriceData is a record of the converter PriceData notification.
	PriceData struct {
		EType          string `json:"etype"`
		ReserveRatio   int64  `json:"reserve_ratio"`
		ReserveBalance string `json:"reserve_balance"`
		SmartSupply    string `json:"smart_supply"`
	}

	// Affiliate is a record of the network Affiliate notification.
	Affiliate struct {
		EType        string `json:"etype"`
		Return       string `json:"return"`
		AffiliateFee string `json:"affiliate_fee"`
		Affiliate    string `json:"affiliate"`
	}
)

// Type implements Record interface.
func (Conversion) Type() string { return ConversionType }

// Type implements Record interface.
func (PriceData) Type() string { return PriceDataType }

// Type implements Record interface.
func (Affiliate) Type() string { return AffiliateType }

// Precisions resolves precision of the pool token hosted by the converter.
type Precisions interface {
	PoolPrecision(converter util.Uint160, pool string) (int, error)
}

// Projector converts application logs into records.
type Projector struct {
	log  *zap.Logger
	prec Precisions
}

// New returns Projector resolving pool token precisions with p. Pool
// precisions mentioned in conversion symbols of the log are used first.
func New(log *zap.Logger, p Precisions) *Projector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Projector{log: log, prec: p}
}

type poolRef struct {
	converter util.Uint160
	pool      string
}

// Project returns records of all AMM notifications of the log in the order
// of emission.
func (p *Projector) Project(alog *result.ApplicationLog) ([]Record, error) {
	if alog == nil {
		return nil, errors.New("nil application log")
	}

	var (
		res      []Record
		pools    = make(map[poolRef]int)
		lastPrec = -1
	)

	for i, ex := range alog.Executions {
		for j, e := range ex.Events {
			switch e.Name {
			case conversionEvent:
				var ev converter.ConversionEvent
				if err := ev.FromStackItem(e.Item); err != nil {
					return nil, fmt.Errorf("conversion (execution #%d, event #%d): %w", i, j, err)
				}

				from, err := parseSymbol(ev.From)
				if err != nil {
					return nil, fmt.Errorf("conversion (execution #%d, event #%d): from: %w", i, j, err)
				}
				to, err := parseSymbol(ev.To)
				if err != nil {
					return nil, fmt.Errorf("conversion (execution #%d, event #%d): to: %w", i, j, err)
				}
				for _, s := range []symbol{from, to} {
					if s.code == ev.Pool {
						pools[poolRef{e.ScriptHash, ev.Pool}] = s.precision
					}
				}
				lastPrec = to.precision

				res = append(res, Conversion{
					EType:         ConversionType,
					From:          ev.From,
					To:            ev.To,
					Amount:        fixedn.ToString(ev.Amount, from.precision),
					Return:        fixedn.ToString(ev.Return, to.precision),
					ConversionFee: fixedn.ToString(ev.Fee, to.precision),
				})
			case priceDataEvent:
				var ev converter.PriceDataEvent
				if err := ev.FromStackItem(e.Item); err != nil {
					return nil, fmt.Errorf("price data (execution #%d, event #%d): %w", i, j, err)
				}

				reserve, err := parseSymbol(ev.Reserve)
				if err != nil {
					return nil, fmt.Errorf("price data (execution #%d, event #%d): reserve: %w", i, j, err)
				}

				ref := poolRef{e.ScriptHash, ev.Pool}
				prec, ok := pools[ref]
				if !ok {
					if p.prec == nil {
						return nil, fmt.Errorf("price data (execution #%d, event #%d): unknown precision of pool %s", i, j, ev.Pool)
					}
					prec, err = p.prec.PoolPrecision(e.ScriptHash, ev.Pool)
					if err != nil {
						return nil, fmt.Errorf("resolve precision of pool %s: %w", ev.Pool, err)
					}
					pools[ref] = prec
					p.log.Debug("pool precision resolved",
						zap.Stringer("converter", e.ScriptHash),
						zap.String("pool", ev.Pool),
						zap.Int("precision", prec))
				}

				res = append(res, PriceData{
					EType:          PriceDataType,
					ReserveRatio:   ev.ReserveRatio.Int64(),
					ReserveBalance: fixedn.ToString(ev.ReserveBalance, reserve.precision),
					SmartSupply:    fixedn.ToString(ev.SmartSupply, prec),
				})
			case affiliateEvent:
				var ev network.AffiliateEvent
				if err := ev.FromStackItem(e.Item); err != nil {
					return nil, fmt.Errorf("affiliate (execution #%d, event #%d): %w", i, j, err)
				}
				if lastPrec < 0 {
					return nil, fmt.Errorf("affiliate (execution #%d, event #%d): %w", i, j, ErrNoConversion)
				}

				res = append(res, Affiliate{
					EType:        AffiliateType,
					Return:       fixedn.ToString(ev.Return, lastPrec),
					AffiliateFee: fixedn.ToString(ev.Fee, lastPrec),
					Affiliate:    address.Uint160ToString(ev.Affiliate),
				})
			}
		}
	}

	p.log.Debug("application log projected",
		zap.Stringer("container", alog.Container),
		zap.Int("records", len(res)))

	return res, nil
}

// Write writes records to w, one JSON object per line.
func Write(w io.Writer, recs []Record) error {
	enc := json.NewEncoder(w)
	for i := range recs {
		if err := enc.Encode(recs[i]); err != nil {
			return fmt.Errorf("encode %s record #%d: %w", recs[i].Type(), i, err)
		}
	}
	return nil
}

type symbol struct {
	precision int
	code      string
}

// parseSymbol parses "<precision>,<CODE>" symbol of the notification.
func parseSymbol(s string) (symbol, error) {
	prec, code, ok := strings.Cut(s, ",")
	if !ok || len(code) == 0 || len(code) > common.MaxCodeLength || strings.Trim(code, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") != "" {
		return symbol{}, fmt.Errorf("invalid symbol %q", s)
	}
	p, err := strconv.ParseUint(prec, 10, 8)
	if err != nil || p > common.MaxPrecision {
		return symbol{}, fmt.Errorf("invalid precision of symbol %q", s)
	}
	return symbol{precision: int(p), code: code}, nil
}

// RPCPrecisions resolves pool precisions with converter GetSettings calls.
type RPCPrecisions struct {
	inv converter.Invoker
}

// NewRPCPrecisions returns RPCPrecisions using inv.
func NewRPCPrecisions(inv converter.Invoker) *RPCPrecisions {
	return &RPCPrecisions{inv: inv}
}

// PoolPrecision implements Precisions interface.
func (r *RPCPrecisions) PoolPrecision(h util.Uint160, pool string) (int, error) {
	st, err := converter.NewReader(r.inv, h).GetSettings(pool)
	if err != nil {
		return 0, err
	}
	if !st.Precision.IsInt64() || st.Precision.Cmp(big.NewInt(common.MaxPrecision)) > 0 {
		return 0, fmt.Errorf("invalid pool precision %s", st.Precision)
	}
	return int(st.Precision.Int64()), nil
}

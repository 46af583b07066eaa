package network

import (
	"github.com/nspcc-dev/bancor-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

type (
	// Hop is a single conversion of the path.
	Hop struct {
		Converter interop.Hash160
		Pool      string
		Target    string
	}

	// Path is a parsed conversion memo.
	Path struct {
		Hops         []Hop
		MinReturn    string
		Destination  interop.Hash160
		Affiliate    interop.Hash160
		AffiliateFee int
		Directive    string
		HasDirective bool
	}
)

const (
	memoVersion = "1"

	// maxHops limits the length of a conversion path.
	maxHops = 8

	maxNameLength = 12

	addressLength  = 34
	addressVersion = 0x35
)

// parsePath parses conversion memo
//
//	1,<name>[:<POOL>] <TARGET>[ ...],<min_return>,<destination>[,<affiliate>,<fee>][;<directive>]
//
// Converter names are resolved with the registry. It panics if the memo is
// malformed.
func parsePath(ctx storage.Context, memo string) Path {
	var p Path

	sections := std.StringSplit(memo, ";")
	if len(sections) > 1 {
		p.HasDirective = true
		p.Directive = sections[1]
		for i := 2; i < len(sections); i++ {
			p.Directive += ";" + sections[i]
		}
		if len(p.Directive) == 0 {
			panic(common.ErrInvalidMemo)
		}
	}

	fields := std.StringSplit(sections[0], ",")
	if len(fields) != 4 && len(fields) != 6 {
		panic(common.ErrInvalidMemo)
	}
	if fields[0] != memoVersion {
		panic("unsupported memo version")
	}

	p.Hops = parseHops(ctx, fields[1])

	checkDecimal(fields[2])
	p.MinReturn = fields[2]

	p.Destination = parseAddress(fields[3])
	if p.Destination == nil {
		panic(common.ErrInvalidDestination)
	}

	if len(fields) == 6 {
		p.Affiliate = parseAddress(fields[4])
		if p.Affiliate == nil {
			panic(common.ErrAffiliateNotAnAccount)
		}
		if !common.IsDigits(fields[5]) || len(fields[5]) > 7 {
			panic(common.ErrInappropriateAffiliateFee)
		}
		p.AffiliateFee = std.Atoi(fields[5], 10)
		if p.AffiliateFee <= 0 || p.AffiliateFee > getMaxAffiliateFee(ctx) {
			panic(common.ErrInappropriateAffiliateFee)
		}
	}

	return p
}

func parseHops(ctx storage.Context, s string) []Hop {
	words := std.StringSplit(s, " ")
	if len(words) == 0 || len(words)%2 != 0 || len(words) > 2*maxHops {
		panic(common.ErrMalformedPath)
	}

	hops := []Hop{}
	for i := 0; i < len(words); i += 2 {
		ref := std.StringSplit(words[i], ":")
		if len(ref) > 2 || !isName(ref[0]) {
			panic(common.ErrMalformedPath)
		}

		c := getConverter(ctx, ref[0])
		pool := c.DefaultPool
		if len(ref) == 2 {
			pool = ref[1]
		}
		if !common.IsCode(pool) || !common.IsCode(words[i+1]) {
			panic(common.ErrMalformedPath)
		}

		hops = append(hops, Hop{
			Converter: c.Hash,
			Pool:      pool,
			Target:    words[i+1],
		})
	}

	return hops
}

// checkDecimal panics if s is not a non-negative decimal number.
func checkDecimal(s string) {
	parts := std.StringSplit(s, ".")
	if len(parts) > 2 || !common.IsDigits(parts[0]) {
		panic(common.ErrMalformedPath)
	}
	if len(parts) == 2 && !common.IsDigits(parts[1]) {
		panic(common.ErrMalformedPath)
	}
}

// scaleDecimal converts decimal number to the integer amount of the given
// precision. Number can not have more fractional digits than precision.
func scaleDecimal(s string, precision int) int {
	parts := std.StringSplit(s, ".")
	v := std.Atoi(parts[0], 10) * pow10(precision)
	if len(parts) == 2 {
		if len(parts[1]) > precision {
			panic(common.ErrMalformedPath)
		}
		v += std.Atoi(parts[1], 10) * pow10(precision-len(parts[1]))
	}
	return v
}

func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

// parseAddress decodes N3 address. It returns nil if the string is not a
// valid standard address.
func parseAddress(s string) interop.Hash160 {
	if len(s) != addressLength {
		return nil
	}
	for i := 0; i < len(s); i++ {
		if !isBase58(s[i]) {
			return nil
		}
	}

	raw := std.Base58Decode([]byte(s))
	if len(raw) != 25 || raw[0] != addressVersion {
		return nil
	}

	payload := raw[:21]
	sum := crypto.Sha256(crypto.Sha256(payload))
	if !util.Equals(string(sum[:4]), string(raw[21:])) {
		return nil
	}

	return interop.Hash160(payload[1:])
}

func isBase58(c uint8) bool {
	switch {
	case c >= '1' && c <= '9':
		return true
	case c >= 'A' && c <= 'Z':
		return c != 'I' && c != 'O'
	case c >= 'a' && c <= 'z':
		return c != 'l'
	}
	return false
}

// isName checks converter name: 1 to 12 chars of a-z, 1-5 and dots.
func isName(s string) bool {
	if len(s) == 0 || len(s) > maxNameLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= '1' && c <= '5' || c == '.') {
			return false
		}
	}
	return true
}

package deploy

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"gopkg.in/yaml.v3"
)

const (
	ppm = 1_000_000

	maxPrecision  = 18
	maxCodeLength = 7
)

// Config describes the deployed AMM: bridge reporters, the converter
// registration and the pools it hosts.
type Config struct {
	// Hex-encoded compressed public keys of bridge reporters.
	Reporters []string `yaml:"reporters"`
	// Zero keeps the network default.
	MaxAffiliateFee uint32 `yaml:"max_affiliate_fee"`

	Converter ConverterConfig `yaml:"converter"`
	Pools     []PoolConfig    `yaml:"pools"`
}

// ConverterConfig is a registration of the converter in the network.
type ConverterConfig struct {
	Name        string `yaml:"name"`
	DefaultPool string `yaml:"default_pool"`
}

// PoolConfig describes a pool and its pool token.
type PoolConfig struct {
	Code     string `yaml:"code"`
	Decimals int    `yaml:"decimals"`
	// Amount of pool tokens issued to the owner, decimal number in units of
	// the token.
	InitialSupply string `yaml:"initial_supply"`
	MaxFee        uint32 `yaml:"max_fee"`
	Fee           uint32 `yaml:"fee"`

	Reserves []ReserveConfig `yaml:"reserves"`
}

// ReserveConfig describes a reserve of the pool backed by existing token.
type ReserveConfig struct {
	// Address or LE hex script hash of the reserve token.
	Token       string `yaml:"token"`
	Symbol      string `yaml:"symbol"`
	Ratio       uint32 `yaml:"ratio"`
	SaleEnabled bool   `yaml:"sale_enabled"`
}

// ReadConfig decodes YAML configuration and checks it.
func ReadConfig(r io.Reader) (Config, error) {
	var cfg Config

	err := yaml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode YAML: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks configuration consistency.
func (c Config) Validate() error {
	if len(c.Reporters) == 0 {
		return errors.New("no bridge reporters")
	}
	for i := range c.Reporters {
		if _, err := keys.NewPublicKeyFromString(c.Reporters[i]); err != nil {
			return fmt.Errorf("reporter #%d: %w", i, err)
		}
	}
	if c.MaxAffiliateFee > ppm {
		return fmt.Errorf("max affiliate fee %d is over %d", c.MaxAffiliateFee, ppm)
	}
	if c.Converter.Name == "" {
		return errors.New("missing converter name")
	}

	var defaultPool bool
	for i := range c.Pools {
		if err := c.Pools[i].validate(); err != nil {
			return fmt.Errorf("pool #%d: %w", i, err)
		}
		defaultPool = defaultPool || c.Pools[i].Code == c.Converter.DefaultPool
	}
	if !defaultPool {
		return fmt.Errorf("default pool %q is not configured", c.Converter.DefaultPool)
	}

	return nil
}

func (p PoolConfig) validate() error {
	if !isCode(p.Code) {
		return fmt.Errorf("invalid code %q", p.Code)
	}
	if p.Decimals < 0 || p.Decimals > maxPrecision {
		return fmt.Errorf("invalid decimals %d", p.Decimals)
	}
	if _, err := p.initialSupply(); err != nil {
		return err
	}
	if p.Fee > p.MaxFee || p.MaxFee > ppm {
		return fmt.Errorf("invalid fees %d/%d", p.Fee, p.MaxFee)
	}

	var sum uint32
	for i := range p.Reserves {
		r := p.Reserves[i]
		if _, err := r.token(); err != nil {
			return fmt.Errorf("reserve #%d: %w", i, err)
		}
		code, ok := symbolCode(r.Symbol)
		if !ok || code == p.Code {
			return fmt.Errorf("reserve #%d: invalid symbol %q", i, r.Symbol)
		}
		if r.Ratio == 0 || r.Ratio > ppm {
			return fmt.Errorf("reserve #%d: invalid ratio %d", i, r.Ratio)
		}
		sum += r.Ratio
	}
	if sum > ppm {
		return fmt.Errorf("reserve ratio sum %d is over %d", sum, ppm)
	}

	return nil
}

func (p PoolConfig) initialSupply() (*big.Int, error) {
	v, err := fixedn.FromString(p.InitialSupply, p.Decimals)
	if err != nil || v.Sign() <= 0 {
		return nil, fmt.Errorf("invalid initial supply %q", p.InitialSupply)
	}
	return v, nil
}

func (r ReserveConfig) token() (util.Uint160, error) {
	if h, err := address.StringToUint160(r.Token); err == nil {
		return h, nil
	}
	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(r.Token, "0x"))
	if err != nil {
		return h, fmt.Errorf("invalid token %q", r.Token)
	}
	return h, nil
}

func symbolCode(s string) (string, bool) {
	prec, code, ok := strings.Cut(s, ",")
	if !ok || !isCode(code) {
		return "", false
	}
	p, err := strconv.Atoi(prec)
	return code, err == nil && p >= 0 && p <= maxPrecision
}

func isCode(s string) bool {
	return len(s) > 0 && len(s) <= maxCodeLength && strings.Trim(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") == ""
}

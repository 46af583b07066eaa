package deploy

import (
	"context"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func validConfigYAML(t *testing.T) string {
	k, err := keys.NewPrivateKey()
	require.NoError(t, err)

	return `
reporters:
  - "` + hex.EncodeToString(k.PublicKey().Bytes()) + `"
max_affiliate_fee: 30000
converter:
  name: bancor
  default_pool: POOL
pools:
  - code: POOL
    decimals: 4
    initial_supply: "1000.5"
    max_fee: 30000
    fee: 3000
    reserves:
      - token: ` + address.Uint160ToString(util.Uint160{1, 2, 3}) + `
        symbol: 8,TKA
        ratio: 500000
        sale_enabled: true
      - token: "0x` + util.Uint160{4, 5, 6}.StringLE() + `"
        symbol: 8,TKB
        ratio: 500000
`
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(validConfigYAML(t)))
	require.NoError(t, err)

	require.Len(t, cfg.Reporters, 1)
	require.EqualValues(t, 30000, cfg.MaxAffiliateFee)
	require.Equal(t, ConverterConfig{Name: "bancor", DefaultPool: "POOL"}, cfg.Converter)
	require.Len(t, cfg.Pools, 1)

	p := cfg.Pools[0]
	supply, err := p.initialSupply()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1000_5000), supply)

	require.Len(t, p.Reserves, 2)
	h, err := p.Reserves[0].token()
	require.NoError(t, err)
	require.Equal(t, util.Uint160{1, 2, 3}, h)
	h, err = p.Reserves[1].token()
	require.NoError(t, err)
	require.Equal(t, util.Uint160{4, 5, 6}, h)
	require.True(t, p.Reserves[0].SaleEnabled)
	require.False(t, p.Reserves[1].SaleEnabled)
}

func TestConfigValidate(t *testing.T) {
	valid := func(t *testing.T) Config {
		cfg, err := ReadConfig(strings.NewReader(validConfigYAML(t)))
		require.NoError(t, err)
		return cfg
	}

	for name, corrupt := range map[string]func(*Config){
		"no reporters":          func(c *Config) { c.Reporters = nil },
		"invalid reporter":      func(c *Config) { c.Reporters[0] = "abc" },
		"affiliate fee":         func(c *Config) { c.MaxAffiliateFee = ppm + 1 },
		"no converter name":     func(c *Config) { c.Converter.Name = "" },
		"unknown default pool":  func(c *Config) { c.Converter.DefaultPool = "OTHER" },
		"lowercase pool code":   func(c *Config) { c.Pools[0].Code = "pool" },
		"decimals":              func(c *Config) { c.Pools[0].Decimals = 19 },
		"zero supply":           func(c *Config) { c.Pools[0].InitialSupply = "0" },
		"supply precision":      func(c *Config) { c.Pools[0].InitialSupply = "1.00001" },
		"fee over max":          func(c *Config) { c.Pools[0].Fee = c.Pools[0].MaxFee + 1 },
		"invalid reserve token": func(c *Config) { c.Pools[0].Reserves[0].Token = "token" },
		"reserve symbol":        func(c *Config) { c.Pools[0].Reserves[0].Symbol = "TKA" },
		"reserve is pool token": func(c *Config) { c.Pools[0].Reserves[0].Symbol = "4,POOL" },
		"zero ratio":            func(c *Config) { c.Pools[0].Reserves[0].Ratio = 0 },
		"ratio sum":             func(c *Config) { c.Pools[0].Reserves[0].Ratio = 500_001 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid(t)
			corrupt(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	_, err := ReadConfig(strings.NewReader("pools: {"))
	require.Error(t, err)
}

func TestDeployInvalidConfig(t *testing.T) {
	_, err := Deploy(context.Background(), Prm{
		Logger: zaptest.NewLogger(t),
	})
	require.Error(t, err)
}

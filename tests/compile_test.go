package tests

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContractsCompile(t *testing.T) {
	e := newExecutor(t)

	for _, p := range []string{tokenPath, converterPath, networkPath, bridgePath, formulaPath} {
		t.Run(p, func(t *testing.T) {
			c := compileContract(t, e, p)
			require.NotNil(t, c.NEF)
			require.NotNil(t, c.Manifest)
			require.NotEmpty(t, c.NEF.Script)
		})
	}
}

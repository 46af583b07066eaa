package formulacontract

import "github.com/nspcc-dev/bancor-contract/formula"

type Return struct {
	Amount int
	Fee    int
}

func PurchaseReturn(supply, balance, ratio, amount, fee int) Return {
	r, f := formula.PurchaseReturn(supply, balance, ratio, amount, fee)
	return Return{Amount: r, Fee: f}
}

func SaleReturn(supply, balance, ratio, amount, fee int) Return {
	r, f := formula.SaleReturn(supply, balance, ratio, amount, fee)
	return Return{Amount: r, Fee: f}
}

func CrossReserveReturn(fromBalance, fromRatio, toBalance, toRatio, amount, fee int) Return {
	r, f := formula.CrossReserveReturn(fromBalance, fromRatio, toBalance, toRatio, amount, fee)
	return Return{Amount: r, Fee: f}
}

func FundCost(supply, balance, totalRatio, amount int) int {
	return formula.FundCost(supply, balance, totalRatio, amount)
}

func LiquidateReturn(supply, balance, totalRatio, amount int) int {
	return formula.LiquidateReturn(supply, balance, totalRatio, amount)
}

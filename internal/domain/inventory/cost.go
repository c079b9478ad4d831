package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una entrada de mercancía.
// nuevo = ((stock × costo) + (entrada × costoEntrada)) / (stock + entrada)
// Con stock actual nulo o negativo el costo pasa a ser el de la entrada.
func WeightedAverageCost(stock int, cost decimal.Decimal, qtyIn int, unitCost decimal.Decimal) decimal.Decimal {
	if qtyIn <= 0 {
		return cost
	}
	if stock <= 0 {
		return unitCost
	}
	current := decimal.NewFromInt(int64(stock))
	in := decimal.NewFromInt(int64(qtyIn))
	num := current.Mul(cost).Add(in.Mul(unitCost))
	return num.Div(current.Add(in)).Round(4)
}

// ReverseWeightedAverageCost deshace una entrada: saca del promedio las unidades
// que aportó a su costo de entrada.
// nuevo = ((stock × costo) − (salida × costoEntrada)) / (stock − salida)
// Si no queda stock, o el resultado no es positivo, se conserva el costo actual.
func ReverseWeightedAverageCost(stock int, cost decimal.Decimal, qtyOut int, unitCost decimal.Decimal) decimal.Decimal {
	if qtyOut <= 0 || stock-qtyOut <= 0 {
		return cost
	}
	current := decimal.NewFromInt(int64(stock))
	out := decimal.NewFromInt(int64(qtyOut))
	num := current.Mul(cost).Sub(out.Mul(unitCost))
	if !num.IsPositive() {
		return cost
	}
	return num.Div(current.Sub(out)).Round(4)
}

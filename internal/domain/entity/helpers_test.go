package entity_test

import "github.com/shopspring/decimal"

func decimalFromString(s string) decimal.Decimal { return decimal.RequireFromString(s) }

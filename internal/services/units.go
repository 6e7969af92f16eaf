package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Stock units accepted on level-5 nodes.
const (
	UnitGram       = "g"
	UnitKilogram   = "kg"
	UnitMilliliter = "ml"
	UnitLiter      = "L"
	UnitPiece      = "und"
)

var validStockUnits = map[string]bool{
	UnitGram:       true,
	UnitKilogram:   true,
	UnitMilliliter: true,
	UnitLiter:      true,
	UnitPiece:      true,
}

// NormalizeUnit trims a unit and maps the lowercase liter spelling.
func NormalizeUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "l" {
		return UnitLiter
	}
	return unit
}

// IsValidStockUnit reports whether unit is one of g, kg, ml, L, und.
func IsValidStockUnit(unit string) bool {
	return validStockUnits[unit]
}

var thousand = decimal.NewFromInt(1000)

// ConvertQuantity expresses qty, given in from, in the unit to. ok is false
// when the units measure different things.
func ConvertQuantity(qty decimal.Decimal, from, to string) (converted decimal.Decimal, ok bool) {
	from, to = NormalizeUnit(from), NormalizeUnit(to)
	if from == to {
		return qty, true
	}
	switch {
	case from == UnitGram && to == UnitKilogram, from == UnitMilliliter && to == UnitLiter:
		return qty.Div(thousand), true
	case from == UnitKilogram && to == UnitGram, from == UnitLiter && to == UnitMilliliter:
		return qty.Mul(thousand), true
	}
	return decimal.Zero, false
}

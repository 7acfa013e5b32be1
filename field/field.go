// Package field abstracts the scalar field that all circuit values live in.
// The arithmetic engine operates on constraint.Element limbs so that chip
// code never touches a concrete curve implementation directly.
package field

import (
	"math/big"
	"strings"

	"github.com/consensys/gnark/constraint"
)

type Field interface {
	constraint.Field
	Field() *big.Int
	FieldBitLen() int
}

// ParseElement parses a decimal or 0x-prefixed hex string into a field
// element. Input files carry field elements as strings to avoid precision
// loss in JSON numbers.
func ParseElement(f Field, s string) (constraint.Element, bool) {
	b := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, ok = b.SetString(s[2:], 16)
	} else {
		_, ok = b.SetString(s, 10)
	}
	if !ok {
		return constraint.Element{}, false
	}
	b.Mod(b, f.Field())
	return f.FromInterface(b), true
}

// Bit returns bit i of the canonical representation of a.
func Bit(f Field, a constraint.Element, i int) uint {
	return f.ToBigInt(a).Bit(i)
}

// PowerOfTwo returns 2^n as a field element.
func PowerOfTwo(f Field, n int) constraint.Element {
	b := new(big.Int).Lsh(big.NewInt(1), uint(n))
	return f.FromInterface(b)
}

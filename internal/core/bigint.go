package core

import "math/big"

// bigInt backs the bigint tag. It is a thin alias over math/big so the
// rest of core never imports math/big directly.
type bigInt struct {
	v *big.Int
}

func NewBigInt(v *big.Int) *bigInt { return &bigInt{v: v} }

func BigIntFromInt64(n int64) *bigInt { return &bigInt{v: big.NewInt(n)} }

func (b *bigInt) String() string { return b.v.String() }

func (b *bigInt) Int() *big.Int { return b.v }

func (b *bigInt) Add(other *bigInt) *bigInt {
	return &bigInt{v: new(big.Int).Add(b.v, other.v)}
}

func (b *bigInt) Sub(other *bigInt) *bigInt {
	return &bigInt{v: new(big.Int).Sub(b.v, other.v)}
}

func (b *bigInt) Mul(other *bigInt) *bigInt {
	return &bigInt{v: new(big.Int).Mul(b.v, other.v)}
}

func (b *bigInt) Cmp(other *bigInt) int { return b.v.Cmp(other.v) }

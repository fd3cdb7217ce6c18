package value_test

import (
	"math"
	"testing"

	"github.com/mna/lox/lang/value"
	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	assert.False(t, value.Nil.Truthy())
	assert.False(t, value.Bool(false).Truthy())
	assert.True(t, value.Bool(true).Truthy())
	assert.True(t, value.Number(0).Truthy())
	assert.True(t, value.FromObj(value.NewString(nil)).Truthy())
}

func TestEqualsAcrossKinds(t *testing.T) {
	assert.False(t, value.Nil.Equals(value.Bool(false)))
	assert.False(t, value.Number(0).Equals(value.Bool(false)))
	assert.True(t, value.Nil.Equals(value.Nil))
}

func TestEqualsNaN(t *testing.T) {
	nan := value.Number(math.NaN())
	assert.False(t, nan.Equals(nan))
}

func TestEqualsObjIdentity(t *testing.T) {
	a := value.FromObj(value.NewString([]byte("abc")))
	b := value.FromObj(value.NewString([]byte("abc")))
	assert.False(t, a.Equals(b), "distinct String objects with equal content are not Equal without interning")
	assert.True(t, a.Equals(a))
}

func TestNumberStringFormatting(t *testing.T) {
	assert.Equal(t, "7", value.Number(7).String())
	assert.Equal(t, "1.5", value.Number(1.5).String())
	assert.Equal(t, "nan", value.Number(math.NaN()).String())
	assert.Equal(t, "inf", value.Number(math.Inf(1)).String())
}

func TestHashBytesDeterministic(t *testing.T) {
	assert.Equal(t, value.HashBytes([]byte("abc")), value.HashBytes([]byte("abc")))
	assert.NotEqual(t, value.HashBytes([]byte("abc")), value.HashBytes([]byte("abd")))
}

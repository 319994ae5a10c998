package model

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

// TestFuzzedUUIDsValidateAgainstUUIDType generates a batch of random
// UUIDs with gofakeit and checks every one round-trips through the
// uuid type, exercising the catalog entry against realistic data
// instead of a single hand-picked example.
func TestFuzzedUUIDsValidateAgainstUUIDType(t *testing.T) {
	s := Normalize(map[string]any{"$type": "uuid", "$format": "any"})
	for i := 0; i < 20; i++ {
		id := gofakeit.UUID()
		_, err := Process(id, s, NoOptions, nil)
		assert.NoErrorf(t, err, "generated uuid %q should validate", id)
	}
}

func TestFuzzedIPv4sValidateAgainstIPType(t *testing.T) {
	s := Normalize(map[string]any{"$type": "ip", "$format": "ipv4"})
	for i := 0; i < 20; i++ {
		ip := gofakeit.IPv4Address()
		_, err := Process(ip, s, NoOptions, nil)
		assert.NoErrorf(t, err, "generated ipv4 %q should validate", ip)
	}
}

func TestFuzzedCreditCardNumbersPassLuhnThenFailWhenMutated(t *testing.T) {
	s := Normalize(map[string]any{"$type": "creditcard"})
	cc := gofakeit.CreditCardNumber(&gofakeit.CreditCardOptions{Types: []string{"visa"}})
	_, err := Process(cc, s, NoOptions, nil)
	assert.NoError(t, err)

	mutated := []byte(cc)
	last := mutated[len(mutated)-1] - '0'
	mutated[len(mutated)-1] = byte((int(last)+1)%10) + '0'
	_, err = Process(string(mutated), s, NoOptions, nil)
	assert.Error(t, err)
}

func TestBoolTypeRejectsNonBoolean(t *testing.T) {
	s := Normalize(map[string]any{"$type": "bool"})
	_, err := Process("true", s, NoOptions, nil)
	assert.Error(t, err)
}

func TestCharTypeRequiresSingleCodePoint(t *testing.T) {
	s := Normalize(map[string]any{"$type": "char"})
	_, err := Process("a", s, NoOptions, nil)
	assert.NoError(t, err)
	_, err = Process("ab", s, NoOptions, nil)
	assert.Error(t, err)
}

func TestNumericTypeEnforcesPrecisionAndScale(t *testing.T) {
	s := Normalize(map[string]any{"$type": "numeric", "$precision": 5, "$scale": 2})
	_, err := Process(123.45, s, NoOptions, nil)
	assert.NoError(t, err)
	_, err = Process(12345.67, s, NoOptions, nil)
	assert.Error(t, err)
}

func TestLatLonBounds(t *testing.T) {
	lat := Normalize(map[string]any{"$type": "lat"})
	_, err := Process(90.0, lat, NoOptions, nil)
	assert.NoError(t, err)
	_, err = Process(90.1, lat, NoOptions, nil)
	assert.Error(t, err)
}

func TestMacAddressSeparators(t *testing.T) {
	s := Normalize(map[string]any{"$type": "mac", "$separator": "-"})
	_, err := Process("01-23-45-67-89-AB", s, NoOptions, nil)
	assert.NoError(t, err)
	_, err = Process("01:23:45:67:89:AB", s, NoOptions, nil)
	assert.Error(t, err)
}

func TestISBNChecksum(t *testing.T) {
	s := Normalize(map[string]any{"$type": "isbn"})
	_, err := Process("9780306406157", s, NoOptions, nil)
	assert.NoError(t, err)
	_, err = Process("9780306406158", s, NoOptions, nil)
	assert.Error(t, err)
}

package tokenswap

import (
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weavetest/assert"
)

func TestFindProgramAddress(t *testing.T) {
	program := MustParseAddress("4ibrEMW5F6hKnkW4jVedswYv6H6VtwPN6ar6dvXDN1nT")
	maker := MustParseAddress("4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw")
	want := MustParseAddress("6nRbnLv9eWA5AZVjB3hDhHGu3MLChUQFN7H9bhSdUGRp")

	seeds := [][]byte{[]byte("escrow"), maker.Bytes()}
	addr, bump, err := FindProgramAddress(seeds, program)
	assert.Nil(t, err)
	assert.Equal(t, want, addr)
	assert.Equal(t, uint8(253), bump)
	assert.Equal(t, false, IsOnCurve(addr))

	// The stored bump re-derives in a single step.
	again, err := CreateProgramAddress(append(seeds, []byte{bump}), program)
	assert.Nil(t, err)
	assert.Equal(t, addr, again)
}

func TestCreateProgramAddress(t *testing.T) {
	program := MustParseAddress("4ibrEMW5F6hKnkW4jVedswYv6H6VtwPN6ar6dvXDN1nT")
	maker := MustParseAddress("4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw")

	cases := map[string]struct {
		seeds   [][]byte
		wantErr *errors.Error
	}{
		"off curve bump": {
			seeds: [][]byte{[]byte("escrow"), maker.Bytes(), {253}},
		},
		"on curve bump is rejected": {
			seeds:   [][]byte{[]byte("escrow"), maker.Bytes(), {255}},
			wantErr: errors.ErrInvalidSeeds,
		},
		"seed too long": {
			seeds:   [][]byte{make([]byte, MaxSeedLength+1)},
			wantErr: errors.ErrInvalidSeeds,
		},
		"too many seeds": {
			seeds:   make([][]byte, MaxSeeds+1),
			wantErr: errors.ErrInvalidSeeds,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			addr, err := CreateProgramAddress(tc.seeds, program)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil && IsOnCurve(addr) {
				t.Fatalf("derived address %s is on curve", addr)
			}
		})
	}
}

func TestDerivationDependsOnProgram(t *testing.T) {
	maker := MustParseAddress("4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw")
	seeds := [][]byte{[]byte("escrow"), maker.Bytes()}

	a, _, err := FindProgramAddress(seeds, DefaultProgramIDs().Escrow)
	assert.Nil(t, err)
	b, _, err := FindProgramAddress(seeds, DefaultProgramIDs().Token)
	assert.Nil(t, err)
	if a == b {
		t.Fatal("different programs derived the same address")
	}
}

func TestFindProgramAddressNoRoomForBump(t *testing.T) {
	_, _, err := FindProgramAddress(make([][]byte, MaxSeeds), ZeroAddress)
	assert.IsErr(t, errors.ErrInvalidSeeds, err)
}

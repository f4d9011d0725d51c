package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChainID(t *testing.T) {
	tests := []struct {
		input   string
		want    ChainID
		wantErr bool
	}{
		{input: "1", want: 1},
		{input: "97", want: 97},
		{input: "11155111", want: 11155111},
		{input: "18446744073709551615", want: ChainID(^uint64(0))},
		{input: "", wantErr: true},
		{input: "0", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "+1", wantErr: true},
		{input: " 1", wantErr: true},
		{input: "0x61", wantErr: true},
		{input: "01", wantErr: true},
		{input: "00097", wantErr: true},
		{input: "1.0", wantErr: true},
		{input: "18446744073709551616", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChainID(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidChainID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestParseContractAddress(t *testing.T) {
	got, err := ParseContractAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	assert.Equal(t, ContractAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"), got)

	for _, bad := range []string{"", "0x123", "not-an-address", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaedzz"} {
		_, err := ParseContractAddress(bad)
		assert.ErrorIs(t, err, ErrInvalidAddress, bad)
	}
}

func TestLookupNativeAsset(t *testing.T) {
	asset, err := LookupNativeAsset(97)
	require.NoError(t, err)
	assert.Equal(t, "binancecoin", asset.ID)
	assert.Equal(t, "BNB", asset.Symbol)

	_, err = LookupNativeAsset(1337)
	assert.ErrorIs(t, err, ErrUnsupportedChain)
}

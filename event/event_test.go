package event

import (
	"strings"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestBlock_PredatesComparesStrictly(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)

	tests := map[string]struct {
		timestamp uint64
		want      bool
	}{
		"earlier": {timestamp: 1_699_999_999, want: true},
		"equal":   {timestamp: 1_700_000_000, want: false},
		"later":   {timestamp: 1_700_000_001, want: false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			b := Block{Timestamp: *uint256.NewInt(test.timestamp)}
			require.Equal(t, test.want, b.Predates(start))
		})
	}
}

func TestBlock_PredatesIgnoresSubSecondPrecision(t *testing.T) {
	b := Block{Timestamp: *uint256.NewInt(100)}
	require.False(t, b.Predates(time.Unix(100, 999_999_999)))
}

func TestBlock_NothingPredatesTheEpoch(t *testing.T) {
	b := Block{}
	require.False(t, b.Predates(time.Unix(-10, 0)))
}

func TestBlock_BlockHashFailsWhenAbsent(t *testing.T) {
	b := Block{}
	_, err := b.BlockHash()
	require.ErrorIs(t, err, ErrBlockWithoutHash)

	b.Hash = Hash{1}
	h, err := b.BlockHash()
	require.NoError(t, err)
	require.Equal(t, Hash{1}, h)
}

func TestBlock_TimeConvertsTimestamp(t *testing.T) {
	b := Block{Timestamp: *uint256.NewInt(42)}
	require.Equal(t, time.Unix(42, 0), b.Time())
}

func TestReceipt_IsStatusOK(t *testing.T) {
	require.True(t, (&Receipt{Status: ReceiptStatusSuccessful}).IsStatusOK())
	require.False(t, (&Receipt{Status: ReceiptStatusFailed}).IsStatusOK())
}

func TestTransaction_IsContractCreation(t *testing.T) {
	to := Address{1}
	require.True(t, (&Transaction{}).IsContractCreation())
	require.False(t, (&Transaction{To: &to}).IsContractCreation())
}

func TestHexToAddress_PadsShortInput(t *testing.T) {
	addr, err := HexToAddress("0xabc")
	require.NoError(t, err)
	require.Equal(t, "0x0000000000000000000000000000000000000abc", addr.Hex())

	_, err = HexToAddress("0xzz")
	require.Error(t, err)
}

func TestHexToAddress_RejectsOversizedInput(t *testing.T) {
	_, err := HexToAddress("0x00000000000000000000000000000000000000e4ff")
	require.Error(t, err)

	_, err = HexToHash("0x" + strings.Repeat("ab", 33))
	require.Error(t, err)

	_, err = HexToHash("0x" + strings.Repeat("ab", 32))
	require.NoError(t, err)
}

func TestHexToHash_RoundTripsThroughHex(t *testing.T) {
	const s = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"
	require.Equal(t, s, MustHexToHash(s).Hex())
}

func TestSignatureTopic_IgnoresNamesAndIndexed(t *testing.T) {
	want := MustHexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")

	for _, sig := range []string{
		"Transfer(address,address,uint256)",
		"Transfer(address indexed from, address indexed to, uint256 value)",
		"  Transfer( address from , address to, uint256 )  ",
	} {
		got, err := SignatureTopic(sig)
		require.NoError(t, err, sig)
		require.Equal(t, want, got, sig)
	}
}

func TestSignatureTopic_RejectsMalformedSignatures(t *testing.T) {
	for _, sig := range []string{"", "Transfer", "(address)", "Transfer(address,,uint256)"} {
		_, err := SignatureTopic(sig)
		require.Error(t, err, sig)
	}
}

func TestCanonicalSignature_KeepsTuples(t *testing.T) {
	got, err := CanonicalSignature("Swap((address,uint256) order, bool ok)")
	require.NoError(t, err)
	require.Equal(t, "Swap((address,uint256),bool)", got)
}

func TestCanonicalSignature_IgnoresWhitespaceInTuples(t *testing.T) {
	tests := map[string]string{
		"Foo((uint256, address) indexed x)":         "Foo((uint256,address))",
		"Foo(( uint256 a , address b )[] xs, bool)": "Foo((uint256,address)[],bool)",
		"Foo((uint256,(address, bytes32) inner) o)": "Foo((uint256,(address,bytes32)))",
	}
	for sig, want := range tests {
		got, err := CanonicalSignature(sig)
		require.NoError(t, err, sig)
		require.Equal(t, want, got, sig)
	}

	_, err := CanonicalSignature("Foo((uint256, address x)")
	require.Error(t, err)
}

func TestLog_EventSignature(t *testing.T) {
	require.Equal(t, Hash{}, Log{}.EventSignature())
	require.Equal(t, Hash{7}, Log{Topics: []Hash{{7}, {8}}}.EventSignature())
}

package receipt

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestSealAndVerify_RoundTrip(t *testing.T) {
	auction := settledAuction(t)
	rcpt, err := Build(auction)
	assert.NoError(t, err)

	km, err := NewKeyManager()
	assert.NoError(t, err)

	coseBytes, err := km.Seal(rcpt)
	assert.NoError(t, err)
	check.True(t, len(coseBytes) > 0)

	verified, err := Verify(coseBytes, km.PublicKey)
	assert.NoError(t, err)
	check.Equal(t, rcpt.AuctionID, verified.AuctionID)
	check.Equal(t, rcpt.Winner, verified.Winner)
	check.Equal(t, rcpt.WinningAmount, verified.WinningAmount)
	check.Equal(t, rcpt.CommissionTotal, verified.CommissionTotal)
	check.Equal(t, rcpt.Proceeds, verified.Proceeds)
	check.Equal(t, rcpt.BidHashes, verified.BidHashes)
}

func TestVerify_WrongKey(t *testing.T) {
	auction := settledAuction(t)
	rcpt, err := Build(auction)
	assert.NoError(t, err)

	km, err := NewKeyManager()
	assert.NoError(t, err)
	coseBytes, err := km.Seal(rcpt)
	assert.NoError(t, err)

	other, err := NewKeyManager()
	assert.NoError(t, err)

	_, err = Verify(coseBytes, other.PublicKey)
	check.Error(t, err)
}

func TestVerify_TamperedPayload(t *testing.T) {
	auction := settledAuction(t)
	rcpt, err := Build(auction)
	assert.NoError(t, err)

	km, err := NewKeyManager()
	assert.NoError(t, err)
	coseBytes, err := km.Seal(rcpt)
	assert.NoError(t, err)

	// Rewrite the payload element with a doctored receipt.
	var coseArray []any
	assert.NoError(t, cbor.Unmarshal(coseBytes, &coseArray))
	assert.Equal(t, 4, len(coseArray))

	rcpt.WinningAmount = "999999"
	doctored, err := cbor.Marshal(rcpt)
	assert.NoError(t, err)
	coseArray[2] = doctored

	tampered, err := cbor.Marshal(coseArray)
	assert.NoError(t, err)

	err = VerifySignature(tampered, km.PublicKey)
	check.Error(t, err)
}

func TestExtractPayload_InvalidStructures(t *testing.T) {
	// Not CBOR at all.
	_, err := ExtractPayload([]byte("garbage"))
	check.Error(t, err)

	// Wrong element count.
	short, marshalErr := cbor.Marshal([]any{[]byte{}, map[int64]any{}})
	assert.NoError(t, marshalErr)
	_, err = ExtractPayload(short)
	check.Error(t, err)
}

package settleapi

import (
	"encoding/json"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestReceiptCOSEBase64_RoundTrip(t *testing.T) {
	raw := []byte{0x84, 0x43, 0xa1, 0x01, 0x26}

	encoded := EncodeReceipt(raw)
	decoded, err := encoded.Decode()
	assert.NoError(t, err)
	check.Equal(t, raw, decoded)
}

func TestReceiptCOSEBase64_Invalid(t *testing.T) {
	_, err := ReceiptCOSEBase64("not-base64!!!").Decode()
	check.Error(t, err)
}

func TestScript_Unmarshal(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"at_seconds": 0, "bidder": "alice", "amount": "100"},
			{"at_seconds": 100, "bidder": "bob", "amount": "105"},
			{"at_seconds": 200, "claim": "commission"},
			{"at_seconds": 200, "claim": "proceeds"}
		]
	}`)

	var script Script
	assert.NoError(t, json.Unmarshal(data, &script))
	assert.Equal(t, 4, len(script.Steps))

	check.Equal(t, "alice", script.Steps[0].Bidder)
	check.Equal(t, "100", script.Steps[0].Amount)
	check.Equal(t, int64(100), script.Steps[1].AtSeconds)
	check.Equal(t, "commission", script.Steps[2].Claim)
	check.Equal(t, "proceeds", script.Steps[3].Claim)
}

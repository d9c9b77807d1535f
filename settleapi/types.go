// Package settleapi defines the wire records exchanged with the settlement
// engine's commands and embedding callers: bid scripts, settlement results,
// and the base64 wrapper for signed receipts.
package settleapi

import (
	"encoding/base64"

	"github.com/cloudx-io/opensettle/core"
)

// ScriptStep is one scripted call against the auction.
type ScriptStep struct {
	// AtSeconds is the ledger time of the call, in seconds since auction
	// creation. Steps must be in non-decreasing time order.
	AtSeconds int64 `json:"at_seconds"`

	// Bidder places a bid of Amount when set. An empty bidder with
	// Claim set drives the post-deadline operations instead.
	Bidder string `json:"bidder,omitempty"`
	Amount string `json:"amount,omitempty"` // decimal string, e.g. "105.50"

	// Claim is one of "commission" or "proceeds"; issued as the owner.
	Claim string `json:"claim,omitempty"`
}

// Script is a replayable sequence of auction calls.
type Script struct {
	Steps []ScriptStep `json:"steps"`
}

// StepResult reports the outcome of one script step.
type StepResult struct {
	Step     ScriptStep `json:"step"`
	Accepted bool       `json:"accepted"`
	Error    string     `json:"error,omitempty"`
}

// SettlementResult is the full outcome of a replayed auction.
type SettlementResult struct {
	Snapshot core.Snapshot `json:"snapshot"`
	Steps    []StepResult  `json:"steps"`
	Events   []core.Event  `json:"events"`

	// ReceiptCOSEBase64 carries the signed settlement receipt when the run
	// was sealed, empty otherwise.
	ReceiptCOSEBase64 ReceiptCOSEBase64 `json:"receipt_cose_base64,omitempty"`
}

// ReceiptCOSEBase64 is a base64-encoded COSE_Sign1 settlement receipt,
// suitable for JSON transport.
type ReceiptCOSEBase64 string

// EncodeReceipt wraps raw COSE bytes for JSON transport.
func EncodeReceipt(coseBytes []byte) ReceiptCOSEBase64 {
	return ReceiptCOSEBase64(base64.StdEncoding.EncodeToString(coseBytes))
}

// Decode returns the raw COSE bytes.
func (r ReceiptCOSEBase64) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(string(r))
}

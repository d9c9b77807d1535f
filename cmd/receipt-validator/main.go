package main

import (
	"crypto/ecdsa"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cloudx-io/opensettle/receipt"
	"github.com/cloudx-io/opensettle/settleapi"
)

func main() {
	var (
		receiptInput = flag.String("receipt", "", "Settlement receipt (file path or inline base64)")
		keyInput     = flag.String("public-key", "", "Receipt public key (PEM file path or inline PEM)")
		outputFormat = flag.String("format", "text", "Output format: text or json")
		help         = flag.Bool("help", false, "Show usage information")
	)

	flag.Parse()

	if *help {
		showUsage()
		os.Exit(0)
	}

	if *receiptInput == "" || *keyInput == "" {
		showUsage()
		fmt.Fprintf(os.Stderr, "\nError: Both inputs are required (--receipt, --public-key)\n")
		os.Exit(1)
	}

	coseBytes, err := readReceiptInput(*receiptInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading receipt: %v\n", err)
		os.Exit(2)
	}

	key, err := readKeyInput(*keyInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading public key: %v\n", err)
		os.Exit(2)
	}

	rcpt, verifyErr := receipt.Verify(coseBytes, key)

	if *outputFormat == "json" {
		outputJSON(rcpt, verifyErr)
	} else {
		outputText(rcpt, verifyErr)
	}

	if verifyErr != nil {
		os.Exit(1)
	}
	os.Exit(0)
}

func readReceiptInput(input string) ([]byte, error) {
	// Try reading as file first
	data, err := os.ReadFile(input)
	if err != nil {
		// Treat as inline base64
		data = []byte(input)
	}
	return settleapi.ReceiptCOSEBase64(strings.TrimSpace(string(data))).Decode()
}

func readKeyInput(input string) (*ecdsa.PublicKey, error) {
	if data, err := os.ReadFile(input); err == nil {
		return receipt.ParsePublicKeyPEM(string(data))
	}
	// Treat as inline PEM
	return receipt.ParsePublicKeyPEM(input)
}

func outputText(rcpt receipt.Receipt, verifyErr error) {
	fmt.Println("Settlement Receipt Validator")
	fmt.Println("============================")
	fmt.Println()

	if verifyErr != nil {
		fmt.Printf("Verification error: %v\n", verifyErr)
		fmt.Println()
		fmt.Println("VALIDATION: FAILED")
		return
	}

	fmt.Println("Receipt:")
	fmt.Printf("  Auction ID:        %s\n", rcpt.AuctionID)
	fmt.Printf("  Winner:            %s\n", rcpt.Winner)
	fmt.Printf("  Winning Amount:    %s\n", rcpt.WinningAmount)
	fmt.Printf("  Commission Total:  %s\n", rcpt.CommissionTotal)
	fmt.Printf("  Proceeds:          %s\n", rcpt.Proceeds)
	fmt.Printf("  Accepted Bids:     %d\n", len(rcpt.BidHashes))
	fmt.Printf("  Sealed At:         %s\n", rcpt.Timestamp)

	fmt.Println()
	fmt.Println("VALIDATION: PASSED")
}

func outputJSON(rcpt receipt.Receipt, verifyErr error) {
	output := map[string]any{
		"valid": verifyErr == nil,
	}
	if verifyErr != nil {
		output["error"] = verifyErr.Error()
	} else {
		output["receipt"] = rcpt
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		os.Exit(2)
	}
	fmt.Println(string(data))
}

func showUsage() {
	fmt.Println("Settlement Receipt Validator")
	fmt.Println()
	fmt.Println("Verifies a COSE-signed settlement receipt against its signing public key.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  receipt-validator --receipt <input> --public-key <input> [options]")
	fmt.Println()
	fmt.Println("Required Flags:")
	fmt.Println("  --receipt <input>      Receipt (file path or inline base64)")
	fmt.Println("  --public-key <input>   Public key (PEM file path or inline PEM)")
	fmt.Println()
	fmt.Println("Optional Flags:")
	fmt.Println("  --format <text|json>   Output format (default: text)")
	fmt.Println("  --help                 Show this help message")
	fmt.Println()
	fmt.Println("Exit Codes:")
	fmt.Println("  0 - Verification passed")
	fmt.Println("  1 - Verification failed")
	fmt.Println("  2 - Invalid input or runtime error")
}

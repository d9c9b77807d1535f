package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/shopspring/decimal"

	"github.com/cloudx-io/opensettle/core"
	"github.com/cloudx-io/opensettle/ledger"
	"github.com/cloudx-io/opensettle/receipt"
	"github.com/cloudx-io/opensettle/settleapi"
)

// simConfig holds the auction parameters, overridable from the environment.
type simConfig struct {
	DurationSeconds     int64  `env:"AUCTION_DURATION_SECONDS" envDefault:"120"`
	ExtensionSeconds    int64  `env:"AUCTION_EXTENSION_SECONDS" envDefault:"30"`
	Owner               string `env:"AUCTION_OWNER" envDefault:"owner"`
	CommissionRecipient string `env:"AUCTION_COMMISSION_RECIPIENT" envDefault:"commission-recipient"`
	ProceedsRecipient   string `env:"AUCTION_PROCEEDS_RECIPIENT" envDefault:"proceeds-recipient"`
}

func main() {
	var (
		scriptInput  = flag.String("script", "", "Bid script JSON (file path or inline JSON)")
		receiptOut   = flag.String("receipt-out", "", "Write the signed settlement receipt (base64) to this file")
		pubKeyOut    = flag.String("pubkey-out", "", "Write the receipt signing public key (PEM) to this file")
		outputFormat = flag.String("format", "text", "Output format: text or json")
		help         = flag.Bool("help", false, "Show usage information")
	)

	flag.Parse()

	if *help {
		showUsage()
		os.Exit(0)
	}

	if *scriptInput == "" {
		showUsage()
		fmt.Fprintf(os.Stderr, "\nError: --script is required\n")
		os.Exit(1)
	}

	cfg := simConfig{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing environment config: %v\n", err)
		os.Exit(2)
	}

	script, err := readScript(*scriptInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
		os.Exit(2)
	}

	result, err := runScript(cfg, script, *receiptOut, *pubKeyOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation error: %v\n", err)
		os.Exit(2)
	}

	if *outputFormat == "json" {
		outputJSON(result)
	} else {
		outputText(result)
	}
	os.Exit(0)
}

func runScript(cfg simConfig, script *settleapi.Script, receiptOut, pubKeyOut string) (*settleapi.SettlementResult, error) {
	start := time.Now().UTC().Truncate(time.Second)
	led := ledger.NewMemory(start)

	sink := &core.MemorySink{}
	auction, err := core.New(core.Config{
		Owner:               core.Identity(cfg.Owner),
		CommissionRecipient: core.Identity(cfg.CommissionRecipient),
		ProceedsRecipient:   core.Identity(cfg.ProceedsRecipient),
		Duration:            time.Duration(cfg.DurationSeconds) * time.Second,
		Extension:           time.Duration(cfg.ExtensionSeconds) * time.Second,
	}, led, sink)
	if err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}

	log.Printf("INFO: Auction %s created: duration=%ds extension=%ds",
		auction.ID(), cfg.DurationSeconds, cfg.ExtensionSeconds)

	steps := make([]settleapi.StepResult, 0, len(script.Steps))
	for _, step := range script.Steps {
		at := start.Add(time.Duration(step.AtSeconds) * time.Second)
		led.Advance(at.Sub(led.Now()))

		err := applyStep(auction, core.Identity(cfg.Owner), step)
		sr := settleapi.StepResult{Step: step, Accepted: err == nil}
		if err != nil {
			sr.Error = err.Error()
		}
		steps = append(steps, sr)
	}

	result := &settleapi.SettlementResult{
		Snapshot: auction.Snapshot(),
		Steps:    steps,
		Events:   sink.Events(),
	}

	// Seal a receipt once the auction can be finalized.
	if auction.IsEnded() {
		if err := auction.Finalize(); err != nil {
			return nil, fmt.Errorf("failed to finalize auction: %w", err)
		}
		result.Snapshot = auction.Snapshot()
		result.Events = sink.Events()

		sealed, err := sealReceipt(auction, receiptOut, pubKeyOut)
		if err != nil {
			return nil, err
		}
		result.ReceiptCOSEBase64 = sealed
	}

	return result, nil
}

func applyStep(auction *core.Auction, owner core.Identity, step settleapi.ScriptStep) error {
	switch {
	case step.Claim == "commission":
		return auction.ClaimCommission(owner)
	case step.Claim == "proceeds":
		return auction.ClaimProceeds(owner)
	case step.Bidder != "":
		amount, err := decimal.NewFromString(step.Amount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", step.Amount, err)
		}
		return auction.PlaceBid(core.Identity(step.Bidder), amount)
	default:
		return fmt.Errorf("step has neither bidder nor claim")
	}
}

func sealReceipt(auction *core.Auction, receiptOut, pubKeyOut string) (settleapi.ReceiptCOSEBase64, error) {
	km, err := receipt.NewKeyManager()
	if err != nil {
		return "", fmt.Errorf("failed to create key manager: %w", err)
	}

	rcpt, err := receipt.Build(auction)
	if err != nil {
		return "", fmt.Errorf("failed to build receipt: %w", err)
	}

	coseBytes, err := km.Seal(rcpt)
	if err != nil {
		return "", fmt.Errorf("failed to seal receipt: %w", err)
	}

	encoded := settleapi.EncodeReceipt(coseBytes)

	if receiptOut != "" {
		if err := os.WriteFile(receiptOut, []byte(encoded), 0o644); err != nil {
			return "", fmt.Errorf("failed to write receipt: %w", err)
		}
		log.Printf("INFO: Settlement receipt written to %s", receiptOut)
	}

	if pubKeyOut != "" {
		pemStr, err := km.PublicKeyPEM()
		if err != nil {
			return "", fmt.Errorf("failed to export public key: %w", err)
		}
		if err := os.WriteFile(pubKeyOut, []byte(pemStr), 0o644); err != nil {
			return "", fmt.Errorf("failed to write public key: %w", err)
		}
		log.Printf("INFO: Receipt public key written to %s", pubKeyOut)
	}

	return encoded, nil
}

func readScript(input string) (*settleapi.Script, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		// Treat as inline JSON
		data = []byte(input)
	}

	var script settleapi.Script
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script has no steps")
	}
	return &script, nil
}

func outputText(result *settleapi.SettlementResult) {
	fmt.Println("Auction Settlement Simulator")
	fmt.Println("============================")
	fmt.Println()

	fmt.Println("Steps:")
	for _, sr := range result.Steps {
		status := "accepted"
		if !sr.Accepted {
			status = fmt.Sprintf("rejected (%s)", sr.Error)
		}
		switch {
		case sr.Step.Claim != "":
			fmt.Printf("  t=%4ds  claim %-10s %s\n", sr.Step.AtSeconds, sr.Step.Claim, status)
		default:
			fmt.Printf("  t=%4ds  bid %s by %-12s %s\n", sr.Step.AtSeconds, sr.Step.Amount, sr.Step.Bidder, status)
		}
	}

	fmt.Println()
	fmt.Println("Settlement:")
	fmt.Printf("  Winner:            %s\n", result.Snapshot.HighestBidder)
	fmt.Printf("  Winning Bid:       %s\n", result.Snapshot.HighestBid)
	fmt.Printf("  Commission Owed:   %s\n", result.Snapshot.Commission)
	fmt.Printf("  Proceeds Pending:  %s\n", result.Snapshot.Proceeds)
	fmt.Printf("  Finalized:         %v\n", result.Snapshot.Finalized)

	fmt.Println()
	fmt.Printf("Events (%d):\n", len(result.Events))
	for _, e := range result.Events {
		fmt.Printf("  %-22s party=%s amount=%s\n", e.Kind, e.Party, e.Amount)
	}
}

func outputJSON(result *settleapi.SettlementResult) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		os.Exit(2)
	}
	fmt.Println(string(data))
}

func showUsage() {
	fmt.Println("Auction Settlement Simulator")
	fmt.Println()
	fmt.Println("Replays a bid script against a fresh auction on the in-memory ledger,")
	fmt.Println("prints the settlement, and optionally seals a signed receipt.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  auction-sim --script <json> [options]")
	fmt.Println()
	fmt.Println("Required Flags:")
	fmt.Println("  --script <json>        Bid script (file path or inline JSON)")
	fmt.Println()
	fmt.Println("Optional Flags:")
	fmt.Println("  --receipt-out <file>   Write the signed settlement receipt (base64)")
	fmt.Println("  --pubkey-out <file>    Write the receipt public key (PEM)")
	fmt.Println("  --format <text|json>   Output format (default: text)")
	fmt.Println("  --help                 Show this help message")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  AUCTION_DURATION_SECONDS      Auction duration (default: 120, minimum: 120)")
	fmt.Println("  AUCTION_EXTENSION_SECONDS     Late-bid extension (default: 30, minimum: 30)")
	fmt.Println("  AUCTION_OWNER                 Owner identity")
	fmt.Println("  AUCTION_COMMISSION_RECIPIENT  Commission recipient identity")
	fmt.Println("  AUCTION_PROCEEDS_RECIPIENT    Proceeds recipient identity")
	fmt.Println()
	fmt.Println("Script Format:")
	fmt.Println("  {")
	fmt.Println("    \"steps\": [")
	fmt.Println("      {\"at_seconds\": 0,   \"bidder\": \"alice\", \"amount\": \"100\"},")
	fmt.Println("      {\"at_seconds\": 100, \"bidder\": \"bob\",   \"amount\": \"105\"},")
	fmt.Println("      {\"at_seconds\": 200, \"claim\": \"commission\"},")
	fmt.Println("      {\"at_seconds\": 200, \"claim\": \"proceeds\"}")
	fmt.Println("    ]")
	fmt.Println("  }")
	fmt.Println()
	fmt.Println("Exit Codes:")
	fmt.Println("  0 - Simulation completed")
	fmt.Println("  1 - Invalid usage")
	fmt.Println("  2 - Invalid input or runtime error")
}

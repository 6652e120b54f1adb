package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cartwise/store-service/internal/receipts"
)

var parseReceiptOutput string

// parseReceiptCmd represents the parse-receipt command
var parseReceiptCmd = &cobra.Command{
	Use:   "parse-receipt [file]",
	Short: "Extract items and prices from receipt text",
	Long: `Parse OCR'd or pasted receipt text into line items with prices. Reads
from the given file, or from stdin when no file is passed.`,
	Example: `  store-service parse-receipt receipt.txt
  pbpaste | store-service parse-receipt --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParseReceipt,
}

func init() {
	rootCmd.AddCommand(parseReceiptCmd)

	parseReceiptCmd.Flags().StringVar(&parseReceiptOutput, "output", "table", "Output format: table or json")
}

func runParseReceipt(cmd *cobra.Command, args []string) error {
	var (
		raw []byte
		err error
	)
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	receipt := receipts.Parse(string(raw))

	if parseReceiptOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(receipt)
	}

	fmt.Printf("Store: %s\n", receipt.Store)
	fmt.Printf("Date:  %s\n", receipt.Date)
	if len(receipt.Items) == 0 {
		fmt.Println("No items found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRICE")
	for _, item := range receipt.Items {
		fmt.Fprintf(w, "%s\t%.2f\n", item.Name, item.Price)
	}
	fmt.Fprintf(w, "TOTAL\t%.2f\n", receipt.Total)
	return w.Flush()
}

package pipeline

import (
	"strings"
)

// buildExtractionPrompt embeds one block of normalized statement text into
// the extraction instructions. The statement formats in play are Indian bank
// and UPI exports (HDFC, SBI, GPay), so payment-mode guessing leans on their
// keywords.
func buildExtractionPrompt(text string) string {
	var b strings.Builder

	b.WriteString("You are an expert data extraction AI.\n")
	b.WriteString("I am providing raw text from a bank statement (HDFC, SBI, GPay, etc.).\n")
	b.WriteString("Extract individual spending transactions into a JSON list.\n\n")

	b.WriteString("Input Text:\n")
	b.WriteString(text)
	b.WriteString("\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("1. \"merchant_name\": the CLEAN name of the shop/person (e.g. \"Zomato\", \"Starbucks\", \"Netflix\"), never a raw ID string.\n")
	b.WriteString("2. \"raw_description\": the EXACT original text line, verbatim (crucial for transaction IDs).\n")
	b.WriteString("3. \"payment_mode\": guess from the text: 'UPI', 'Card' (POS/Debit), 'Cash' (ATM), 'NetBanking'. Default to 'Other'.\n")
	b.WriteString("4. \"amount\": positive number. NEVER emit credits, deposits or incoming funds.\n")
	b.WriteString("5. \"category\": guess from the merchant (Food, Travel, Utilities, etc.).\n")
	b.WriteString("6. \"date\": ISO format YYYY-MM-DD.\n\n")

	b.WriteString("Return ONLY a valid raw JSON list.\n")
	b.WriteString("Do NOT wrap the response in code fences or Markdown.\n")
	b.WriteString("Output must begin with \"[\" and end with \"]\".\n\n")

	b.WriteString("Output format:\n")
	b.WriteString(`[{"date": "2024-10-05", "merchant_name": "Starbucks", "raw_description": "POS 445590 STARBUCKS COFFEE MUMBAI", "payment_mode": "Card", "amount": 250.00, "category": "Food"}]`)
	b.WriteString("\n")

	return b.String()
}

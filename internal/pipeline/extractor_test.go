package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Aksh2758/subzap-ai-agent/internal/domain"
)

// fakeGenerator replays canned responses (or an error) and records the
// prompts it received.
type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestExtractor_Extract_FencedResponseWithDefaults(t *testing.T) {
	gen := &fakeGenerator{
		response: "Here is the data:\n```json\n[{\"date\":\"2024-10-05\",\"merchant_name\":\"Starbucks\",\"amount\":250.0,\"category\":\"Food\"}]\n```",
	}
	e := NewExtractor(gen, zerolog.Nop())

	txs, failed := e.Extract(context.Background(), "05/10 STARBUCKS 250.00")
	if failed {
		t.Fatal("Extract() reported failure for a valid response")
	}
	if len(txs) != 1 {
		t.Fatalf("Extract() returned %d records, want 1", len(txs))
	}

	got := txs[0]
	if got.MerchantName != "Starbucks" {
		t.Errorf("MerchantName = %q", got.MerchantName)
	}
	if got.RawDescription != "Starbucks" {
		t.Errorf("RawDescription = %q, want merchant fallback", got.RawDescription)
	}
	if got.PaymentMode != domain.PaymentUnknown {
		t.Errorf("PaymentMode = %q, want %q", got.PaymentMode, domain.PaymentUnknown)
	}
	if got.Amount != 250.0 {
		t.Errorf("Amount = %v, want 250", got.Amount)
	}
	if got.Date.Format("2006-01-02") != "2024-10-05" {
		t.Errorf("Date = %v", got.Date)
	}
}

func TestExtractor_Extract_NoJSONListInResponse(t *testing.T) {
	gen := &fakeGenerator{response: "I could not find any transactions in this text."}
	e := NewExtractor(gen, zerolog.Nop())

	txs, failed := e.Extract(context.Background(), "05/10 STARBUCKS 250.00")
	if !failed {
		t.Error("Extract() should report failure when no JSON list is present")
	}
	if len(txs) != 0 {
		t.Errorf("Extract() returned %d records, want 0", len(txs))
	}
}

func TestExtractor_Extract_GeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	e := NewExtractor(gen, zerolog.Nop())

	txs, failed := e.Extract(context.Background(), "05/10 STARBUCKS 250.00")
	if !failed {
		t.Error("Extract() should report failure on collaborator error")
	}
	if txs != nil {
		t.Errorf("Extract() = %v, want nil", txs)
	}
}

func TestExtractor_Extract_MalformedJSON(t *testing.T) {
	gen := &fakeGenerator{response: `[{"date": "2024-10-05", "merchant_name": ]`}
	e := NewExtractor(gen, zerolog.Nop())

	txs, failed := e.Extract(context.Background(), "05/10 STARBUCKS 250.00")
	if !failed {
		t.Error("Extract() should report failure for malformed JSON")
	}
	if len(txs) != 0 {
		t.Errorf("Extract() returned %d records, want 0", len(txs))
	}
}

func TestExtractor_Extract_EmptyTextSkipsModelCall(t *testing.T) {
	gen := &fakeGenerator{response: "[]"}
	e := NewExtractor(gen, zerolog.Nop())

	txs, failed := e.Extract(context.Background(), "  \n ")
	if failed {
		t.Error("empty text is not a failure")
	}
	if len(txs) != 0 {
		t.Errorf("Extract() returned %d records, want 0", len(txs))
	}
	if len(gen.prompts) != 0 {
		t.Errorf("generator was called %d times, want 0", len(gen.prompts))
	}
}

func TestExtractor_Extract_PromptEmbedsText(t *testing.T) {
	gen := &fakeGenerator{response: "[]"}
	e := NewExtractor(gen, zerolog.Nop())

	e.Extract(context.Background(), "12/01 ZOMATO 450.00")
	if len(gen.prompts) != 1 {
		t.Fatalf("generator called %d times, want 1", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "12/01 ZOMATO 450.00") {
		t.Error("prompt does not embed the text block")
	}
	if !strings.Contains(gen.prompts[0], "raw_description") {
		t.Error("prompt does not state the extraction rules")
	}
}

func TestSanitizeModelJSON(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{
			name:   "bare list",
			in:     `[{"a":1}]`,
			want:   `[{"a":1}]`,
			wantOK: true,
		},
		{
			name:   "code fences and prose",
			in:     "Sure!\n```json\n[{\"a\":1}]\n```\nLet me know if you need more.",
			want:   `[{"a":1}]`,
			wantOK: true,
		},
		{
			name:   "no brackets",
			in:     "no transactions found",
			wantOK: false,
		},
		{
			name:   "closing bracket before opening",
			in:     "] oops [",
			wantOK: false,
		},
		{
			name:   "nested lists keep the outer span",
			in:     `noise [[1,2],[3]] trailing`,
			want:   `[[1,2],[3]]`,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sanitizeModelJSON(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("payload = %q, want %q", got, tt.want)
			}
		})
	}
}

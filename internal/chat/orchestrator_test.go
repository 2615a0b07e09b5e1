package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/chiheye/LLMGraphChat/internal/graphdb"
	"github.com/chiheye/LLMGraphChat/internal/llm"
	"github.com/chiheye/LLMGraphChat/internal/repair"
)

func validRequest() TurnRequest {
	return TurnRequest{
		UserText:   "who knows alice",
		LLMAPIKey:  "key",
		DBURI:      "bolt://localhost:7687",
		DBUsername: "neo4j",
		DBPassword: "secret",
	}
}

func TestHandleTurnValidation(t *testing.T) {
	// Validation runs before any component is contacted, so an orchestrator
	// over unreachable backends is safe here.
	o := NewOrchestrator(graphdb.NewManager(), llm.NewSynthesizer(), repair.NewEngine())

	tests := []struct {
		name      string
		mutate    func(*TurnRequest)
		wantField string
	}{
		{"missing llm key", func(r *TurnRequest) { r.LLMAPIKey = "" }, "llmApiKey"},
		{"missing db uri", func(r *TurnRequest) { r.DBURI = "" }, "dbUri"},
		{"missing db username", func(r *TurnRequest) { r.DBUsername = "" }, "dbUsername"},
		{"missing db password", func(r *TurnRequest) { r.DBPassword = "" }, "dbPassword"},
		{"missing user text", func(r *TurnRequest) { r.UserText = "" }, "userText"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			resp, err := o.HandleTurn(context.Background(), req)
			if resp != nil {
				t.Errorf("resp = %v, want nil", resp)
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.wantField)
			}
		})
	}

	t.Run("llm key checked before db fields", func(t *testing.T) {
		_, err := o.HandleTurn(context.Background(), TurnRequest{})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("err = %v, want *ValidationError", err)
		}
		if vErr.Field != "llmApiKey" {
			t.Errorf("Field = %q, want %q", vErr.Field, "llmApiKey")
		}
	})
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "dbUri"}
	if got, want := err.Error(), `missing required field "dbUri"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

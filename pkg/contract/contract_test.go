package contract

import (
	"context"
	"errors"
	"testing"
)

func mustDefault(t *testing.T) *Contract {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	return c
}

func TestDefault_DescribesPredictOperation(t *testing.T) {
	c := mustDefault(t)
	if got := c.OperationID(); got != "predictFertilizer" {
		t.Fatalf("operation id = %q", got)
	}
}

func TestValidateRequest(t *testing.T) {
	c := mustDefault(t)

	valid := []byte(`{"crop":"Wheat","region":"North","month":"July","N":50,"P":30,"K":20,"temperature":25.5,"humidity":60,"ph":6.5,"moisture":40}`)
	if err := c.ValidateRequest(valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	stringly := []byte(`{"crop":"Wheat","region":"North","month":"July","N":"50","P":30,"K":20,"temperature":25.5,"humidity":60,"ph":6.5,"moisture":40}`)
	if err := c.ValidateRequest(stringly); !errors.Is(err, ErrViolation) {
		t.Fatalf("expected violation for string number, got %v", err)
	}
}

func TestValidateResponse(t *testing.T) {
	c := mustDefault(t)

	if err := c.ValidateResponse(200, []byte(`{"fertilizer":"Urea","fertilizer_type":"Nitrogen","crop":"Wheat"}`)); err != nil {
		t.Fatalf("valid response rejected: %v", err)
	}
	if err := c.ValidateResponse(200, []byte(`{"fertilizer":"Urea","fertilizer_type":null,"crop":null,"region":null,"month":null}`)); err != nil {
		t.Fatalf("null echoes rejected: %v", err)
	}
	if err := c.ValidateResponse(200, []byte(`{"fertilizer":"Urea"}`)); err != nil {
		t.Fatalf("response without category rejected: %v", err)
	}
	if err := c.ValidateResponse(200, []byte(`{"fertilizer_type":"Nitrogen"}`)); !errors.Is(err, ErrViolation) {
		t.Fatalf("expected violation for missing fertilizer, got %v", err)
	}
	if err := c.ValidateResponse(200, []byte(`not json`)); !errors.Is(err, ErrViolation) {
		t.Fatalf("expected violation for non-JSON body, got %v", err)
	}
	if err := c.ValidateResponse(400, []byte(`{"error":"Invalid soil pH"}`)); err != nil {
		t.Fatalf("error body rejected: %v", err)
	}
	if err := c.ValidateResponse(400, []byte(`{"error":42}`)); !errors.Is(err, ErrViolation) {
		t.Fatalf("expected violation for numeric error field, got %v", err)
	}
}

func TestLoad_RequiresPredictOperation(t *testing.T) {
	doc := []byte(`
openapi: 3.0.3
info: {title: x, version: "1"}
paths:
  /other:
    get:
      responses:
        "200": {description: ok}
`)
	if _, err := Load(context.Background(), doc); err == nil {
		t.Fatalf("expected error for missing predict operation")
	}
	if _, err := Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

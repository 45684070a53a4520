// Package contract holds the OpenAPI description of the prediction endpoint and
// validates payloads against it before they cross the wire (requests) or reach a
// renderer (responses).
package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed predict.yaml
var embeddedDocument []byte

const (
	// PredictPath is the documented path of the prediction operation.
	PredictPath = "/predict"
	jsonMedia   = "application/json"
)

// ErrViolation marks payloads that do not match the contract.
var ErrViolation = errors.New("contract: payload violates schema")

// Contract exposes the request and response schemas of the predict operation.
type Contract struct {
	request  *openapi3.Schema
	success  *openapi3.Schema
	failure  *openapi3.Schema
	document *openapi3.T
}

var (
	defaultOnce     sync.Once
	defaultContract *Contract
	defaultErr      error
)

// Default loads the embedded document once.
func Default() (*Contract, error) {
	defaultOnce.Do(func() {
		defaultContract, defaultErr = Load(context.Background(), embeddedDocument)
	})
	return defaultContract, defaultErr
}

// Load parses and validates an OpenAPI document describing POST /predict.
func Load(ctx context.Context, raw []byte) (*Contract, error) {
	if len(raw) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}

	if doc.Paths == nil {
		return nil, errors.New("contract: document does not contain any paths")
	}
	item := doc.Paths.Value(PredictPath)
	if item == nil || item.Post == nil {
		return nil, fmt.Errorf("contract: POST %s not documented", PredictPath)
	}
	op := item.Post

	c := &Contract{document: doc}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, errors.New("contract: predict operation has no request body")
	}
	c.request = mediaSchema(op.RequestBody.Value.Content)
	if c.request == nil {
		return nil, errors.New("contract: request body has no JSON schema")
	}
	if op.Responses != nil {
		if ref := op.Responses.Status(200); ref != nil && ref.Value != nil {
			c.success = mediaSchema(ref.Value.Content)
		}
		if ref := op.Responses.Default(); ref != nil && ref.Value != nil {
			c.failure = mediaSchema(ref.Value.Content)
		}
	}
	if c.success == nil {
		return nil, errors.New("contract: 200 response has no JSON schema")
	}
	return c, nil
}

func mediaSchema(content openapi3.Content) *openapi3.Schema {
	mt, ok := content[jsonMedia]
	if !ok || mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

// OperationID reports the documented operation id.
func (c *Contract) OperationID() string {
	if c == nil || c.document == nil {
		return ""
	}
	if item := c.document.Paths.Value(PredictPath); item != nil && item.Post != nil {
		return item.Post.OperationID
	}
	return ""
}

// ValidateRequest checks an encoded request body.
func (c *Contract) ValidateRequest(body []byte) error {
	return validate("request", c.request, body)
}

// ValidateResponse checks an encoded response body for the given status. Error
// bodies are only checked when the document declares a default response.
func (c *Contract) ValidateResponse(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return validate("response "+strconv.Itoa(status), c.success, body)
	}
	if c.failure == nil {
		return nil
	}
	return validate("response "+strconv.Itoa(status), c.failure, body)
}

func validate(what string, schema *openapi3.Schema, body []byte) error {
	if schema == nil {
		return nil
	}
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("%w: %s: decode: %v", ErrViolation, what, err)
	}
	if err := schema.VisitJSON(value); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrViolation, what, err)
	}
	return nil
}

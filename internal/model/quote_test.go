package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteRequest_Validate(t *testing.T) {
	valid := QuoteRequest{Items: []LineItemRequest{
		{ProductName: "Desk Lamp", QuantityRequested: 2},
	}}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  QuoteRequest
	}{
		{"no items", QuoteRequest{}},
		{"blank product name", QuoteRequest{Items: []LineItemRequest{
			{ProductName: "   ", QuantityRequested: 2},
		}}},
		{"zero quantity", QuoteRequest{Items: []LineItemRequest{
			{ProductName: "Desk Lamp", QuantityRequested: 0},
		}}},
		{"negative quantity", QuoteRequest{Items: []LineItemRequest{
			{ProductName: "Desk Lamp", QuantityRequested: -5},
		}}},
		{"one bad item among good", QuoteRequest{Items: []LineItemRequest{
			{ProductName: "Desk Lamp", QuantityRequested: 2},
			{ProductName: "Trail Backpack", QuantityRequested: -1},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Validate())
		})
	}
}

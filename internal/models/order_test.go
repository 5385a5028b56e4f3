package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseNumber(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		valid bool
	}{
		{`12.5`, "12.5", true},
		{`"40"`, "40", true},
		{`" 7 "`, "7", true},
		{`""`, "0", false},
		{`null`, "0", false},
		{`"abc"`, "0", false},
		{`"12abc"`, "0", false},
	}
	for _, tt := range tests {
		var n LooseNumber
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &n), tt.raw)
		assert.Equal(t, tt.want, n.String(), tt.raw)
		assert.Equal(t, tt.valid, n.Valid, tt.raw)
	}
}

func TestParsePaymentType(t *testing.T) {
	for in, want := range map[string]PaymentType{
		"cash":   PaymentTypeCash,
		"":       PaymentTypeCash,
		"credit": PaymentTypeCredit,
		"utang":  PaymentTypeCredit,
		"UTANG ": PaymentTypeCredit,
	} {
		got, err := ParsePaymentType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePaymentType("gcash")
	assert.Error(t, err)

	var req SaveOrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"payment_type":"utang","order_date":"2025-06-01","due_date":""}`), &req))
	assert.Equal(t, PaymentTypeCredit, req.PaymentType)
	assert.Equal(t, "2025-06-01", req.OrderDate.String())
	assert.True(t, req.DueDate.IsZero())
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2025-02-28")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-02-28"`, string(b))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(b))

	var back Date
	assert.Error(t, json.Unmarshal([]byte(`"28/02/2025"`), &back))
}

func TestProductLabel(t *testing.T) {
	assert.Equal(t, "Lipstick — Matte • Ruby • 4g", ProductLabel("Lipstick", "Matte", "Ruby", "4g"))
	assert.Equal(t, "Lotion — 200ml", ProductLabel("Lotion", "", " ", "200ml"))
	assert.Equal(t, "Soap", ProductLabel("Soap", "", "", ""))
}

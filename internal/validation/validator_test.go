package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type signupRequest struct {
	Name     string  `json:"name" validate:"required,max=10"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,password"`
	Phone    *string `json:"phone" validate:"omitempty,phone_id"`
	Active   *bool   `json:"active"`
}

func (r *signupRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *signupRequest) ApplyDefaults() {
	if r.Active == nil {
		v := true
		r.Active = &v
	}
}

type priceRequest struct {
	Cost  decimal.Decimal `json:"cost" validate:"gt=0"`
	Price decimal.Decimal `json:"price" validate:"gt=0"`
}

func (r *priceRequest) CheckFields() []string {
	if r.Price.LessThan(r.Cost) {
		return []string{"price must not be below cost"}
	}
	return nil
}

func TestStruct_Valid(t *testing.T) {
	req := &signupRequest{Name: "Ana", Email: "  ANA@Example.com", Password: "Secret123"}

	assert.Empty(t, Struct(req))
	assert.Equal(t, "ana@example.com", req.Email)
	assert.NotNil(t, req.Active)
	assert.True(t, *req.Active)
}

func TestStruct_CollectsEveryProblem(t *testing.T) {
	req := &signupRequest{Name: "", Email: "nope", Password: "short"}

	problems := Struct(req)

	assert.ElementsMatch(t, []string{
		"name is required",
		"email must be a valid email address",
		"password must be at least 8 characters",
	}, problems)
}

func TestStruct_PasswordNeedsLetterAndDigit(t *testing.T) {
	for _, pw := range []string{"abcdefgh", "12345678"} {
		problems := Struct(&signupRequest{Name: "Ana", Email: "a@b.co", Password: pw})
		assert.Equal(t, []string{"password must contain at least one letter and one digit"}, problems, pw)
	}
}

func TestStruct_Phone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"081234567890", true},
		{"+6281234567890", true},
		{"6281234567", true},
		{"0212345678", false},
		{"08123", false},
		{"phone", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			phone := tt.phone
			problems := Struct(&signupRequest{Name: "Ana", Email: "a@b.co", Password: "Secret123", Phone: &phone})
			if tt.valid {
				assert.Empty(t, problems)
			} else {
				assert.Equal(t, []string{"phone must be a valid Indonesian phone number"}, problems)
			}
		})
	}
}

func TestStruct_DecimalAndCrossField(t *testing.T) {
	problems := Struct(&priceRequest{Cost: decimal.NewFromInt(0), Price: decimal.NewFromInt(-1)})
	assert.Contains(t, problems, "cost must be greater than 0")
	assert.Contains(t, problems, "price must be greater than 0")
	assert.Contains(t, problems, "price must not be below cost")

	assert.Empty(t, Struct(&priceRequest{Cost: decimal.NewFromInt(5000), Price: decimal.RequireFromString("12500.50")}))
}

type secretRequest struct {
	Secret string `json:"secret" validate:"required,maxbytes=8"`
}

func TestStruct_MaxBytesCountsEncodedLength(t *testing.T) {
	assert.Empty(t, Struct(&secretRequest{Secret: "abcdefgh"}))
	assert.Empty(t, Struct(&secretRequest{Secret: "éééé"}))
	assert.Equal(t, []string{"secret must be at most 8 bytes"}, Struct(&secretRequest{Secret: "ééééé"}))
}

package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := RegisterRequest{
		FirstName: "  Ana  ",
		LastName:  " Torres ",
		Email:     "  ana@example.com  ",
		Password:  "  pass1234  ",
		BirthDate: " 2010-03-15 ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "Ana", req.FirstName)
	assert.Equal(t, "Torres", req.LastName)
	assert.Equal(t, "ana@example.com", req.Email)
	assert.Equal(t, "pass1234", req.Password)
	assert.Equal(t, "2010-03-15", req.BirthDate)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := RegisterRequest{
		FirstName: "Ana <script>alert('x')</script>",
		LastName:  "Torres",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.FirstName, "&lt;script&gt;")
	assert.NotContains(t, req.FirstName, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	target := "  b3b2f1de-5a6f-4a39-9d2d-0d6a5f3d9c1e  "
	req := PayRequest{
		Amount:         1000,
		TargetWalletID: &target,
	}
	SanitizeStruct(&req)

	assert.Equal(t, "b3b2f1de-5a6f-4a39-9d2d-0d6a5f3d9c1e", *req.TargetWalletID)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := PayRequest{Amount: 1000, TargetWalletID: nil}
	SanitizeStruct(&req)
	assert.Nil(t, req.TargetWalletID)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"ref-001",
		"REF_002",
		"a.b.c",
		"simple123",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"ref 001",     // space
		"ref<001>",    // angle brackets
		"ref;DROP",    // semicolon
		"",            // empty
		"hello world", // space
		"ref\n001",    // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestSanitizeStruct_TransferRequest(t *testing.T) {
	req := TransferRequest{
		DestinationWalletID: "  b3b2f1de-5a6f-4a39-9d2d-0d6a5f3d9c1e  ",
		Amount:              2500,
		ReferenceID:         " TRF-001 ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "b3b2f1de-5a6f-4a39-9d2d-0d6a5f3d9c1e", req.DestinationWalletID)
	assert.Equal(t, "TRF-001", req.ReferenceID)
}

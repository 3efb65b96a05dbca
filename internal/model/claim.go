package model

import (
	"fmt"
	"strings"
)

// NotFound is the placeholder recorded for claim fields that are absent
// from the source text. Extraction never leaves a scalar field empty.
const NotFound = "N/A"

// ClaimRecord is the structured result of claim field extraction.
// All scalar fields are always populated, falling back to NotFound;
// SpecialFlags falls back to an empty set.
type ClaimRecord struct {
	CaseID          string   `json:"case_id"`
	ClaimType       string   `json:"claim_type"`
	State           string   `json:"state"`
	PolicyType      string   `json:"policy_type"`
	ClaimAmount     string   `json:"claim_amount"`
	FiledDate       string   `json:"filed_date"`
	SpecialFlags    []string `json:"special_flags"`
	CaseDescription string   `json:"case_description"`
}

// NewClaimRecord returns a record with every field set to its sentinel.
func NewClaimRecord() ClaimRecord {
	return ClaimRecord{
		CaseID:          NotFound,
		ClaimType:       NotFound,
		State:           NotFound,
		PolicyType:      NotFound,
		ClaimAmount:     NotFound,
		FiledDate:       NotFound,
		SpecialFlags:    []string{},
		CaseDescription: NotFound,
	}
}

// Render serializes the record as key=value lines, one per field.
// Unset scalar fields render as N/A, an empty flag set renders as [].
func (r ClaimRecord) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "case_id=%s\n", r.CaseID)
	fmt.Fprintf(&b, "claim_type=%s\n", r.ClaimType)
	fmt.Fprintf(&b, "state=%s\n", r.State)
	fmt.Fprintf(&b, "policy_type=%s\n", r.PolicyType)
	fmt.Fprintf(&b, "claim_amount=%s\n", r.ClaimAmount)
	fmt.Fprintf(&b, "filed_date=%s\n", r.FiledDate)
	fmt.Fprintf(&b, "special_flags=[%s]\n", strings.Join(r.SpecialFlags, ", "))
	fmt.Fprintf(&b, "case_description=%s", r.CaseDescription)
	return b.String()
}

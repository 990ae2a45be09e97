package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoanStatusAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	returned := now.Add(-time.Hour)

	tests := []struct {
		name string
		loan Loan
		want string
	}{
		{"outstanding before due", Loan{DueDate: now.Add(time.Hour)}, LoanStatusActive},
		{"outstanding exactly at due", Loan{DueDate: now}, LoanStatusActive},
		{"outstanding past due", Loan{DueDate: now.Add(-time.Hour)}, LoanStatusOverdue},
		{"returned on time", Loan{DueDate: now.Add(time.Hour), ReturnDate: &returned}, LoanStatusReturned},
		{"returned late", Loan{DueDate: now.Add(-48 * time.Hour), ReturnDate: &returned}, LoanStatusReturned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.loan.StatusAt(now))
			assert.Equal(t, tt.want == LoanStatusOverdue, tt.loan.OverdueAt(now))
		})
	}
}

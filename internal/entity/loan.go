package entity

import "time"

// Loan status values. Status is always derived from DueDate and ReturnDate at
// read time; it is never persisted.
const (
	LoanStatusActive   = "active"
	LoanStatusReturned = "returned"
	LoanStatusOverdue  = "overdue"
)

type Loan struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	UserID     int64      `json:"user_id"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`

	// Derived fields, filled by the loan service.
	Status  string `json:"status,omitempty"`
	Overdue bool   `json:"overdue"`

	// Joined summaries, populated only by detail listings.
	BookTitle string `json:"book_title,omitempty"`
	UserName  string `json:"user_name,omitempty"`
}

// StatusAt derives the loan status as of now.
func (l Loan) StatusAt(now time.Time) string {
	if l.ReturnDate != nil {
		return LoanStatusReturned
	}
	if now.After(l.DueDate) {
		return LoanStatusOverdue
	}
	return LoanStatusActive
}

// OverdueAt reports whether the loan is outstanding past its due date.
func (l Loan) OverdueAt(now time.Time) bool {
	return l.ReturnDate == nil && now.After(l.DueDate)
}

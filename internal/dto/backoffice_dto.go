package dto

import "github.com/shopspring/decimal"

// backoffice_dto.go — expenses, staff, tasks, appointments, deals.

// ─── Expenses ────────────────────────────────────────────────────────────────

type CreateExpenseRequest struct {
	Name        string          `json:"name"     validate:"required,min=1,max=120"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"   validate:"required"`
	Paid        *bool           `json:"paid"`
	Description *string         `json:"description"`
	Date        *string         `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Paid        bool            `json:"paid"`
	Description *string         `json:"description,omitempty"`
	Date        string          `json:"date"`
}

// ─── Staff ───────────────────────────────────────────────────────────────────

type CreateStaffRequest struct {
	Name     string          `json:"name"     validate:"required,min=1,max=120"`
	Email    *string         `json:"email"    validate:"omitempty,email"`
	Phone    *string         `json:"phone"`
	Position string          `json:"position" validate:"required"`
	Salary   decimal.Decimal `json:"salary"   validate:"min=0"`
	JoinDate *string         `json:"join_date" validate:"omitempty,datetime=2006-01-02"`
}

type StaffResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    *string         `json:"email,omitempty"`
	Phone    *string         `json:"phone,omitempty"`
	Position string          `json:"position"`
	Salary   decimal.Decimal `json:"salary"`
	JoinDate string          `json:"join_date"`
	Active   bool            `json:"active"`
}

// ─── Tasks ───────────────────────────────────────────────────────────────────

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Done        bool    `json:"done"`
}

// ─── Appointments ────────────────────────────────────────────────────────────

type CreateAppointmentRequest struct {
	Title        string  `json:"title" validate:"required,min=1,max=200"`
	CustomerName string  `json:"customer_name"`
	At           string  `json:"at"    validate:"required"` // RFC 3339
	Note         *string `json:"note"`
}

type AppointmentResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	CustomerName string  `json:"customer_name,omitempty"`
	At           string  `json:"at"`
	Note         *string `json:"note,omitempty"`
}

// ─── Deals ───────────────────────────────────────────────────────────────────

type CreateDealRequest struct {
	Title         string          `json:"title" validate:"required,min=1,max=200"`
	CustomerName  string          `json:"customer_name"`
	Value         decimal.Decimal `json:"value" validate:"min=0"`
	Stage         *string         `json:"stage" validate:"omitempty,oneof=lead negotiation won lost"`
	ExpectedClose *string         `json:"expected_close" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateDealStageRequest struct {
	Stage string `json:"stage" validate:"required,oneof=lead negotiation won lost"`
}

type DealResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	CustomerName  string          `json:"customer_name,omitempty"`
	Value         decimal.Decimal `json:"value"`
	Stage         string          `json:"stage"`
	ExpectedClose *string         `json:"expected_close,omitempty"`
}

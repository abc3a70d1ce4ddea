package transport

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateExpenseRequest struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

// UpdateExpenseRequest is a partial patch: absent fields stay untouched.
type UpdateExpenseRequest struct {
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Date        *string  `json:"date"`
	Description *string  `json:"description"`
}

// ListExpensesQuery carries the raw query-string values; the service layer
// validates and normalizes them before any data access.
type ListExpensesQuery struct {
	Page      string `query:"page"`
	Limit     string `query:"limit"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Category  string `query:"category"`
	Search    string `query:"search"`
	Sort      string `query:"sort"`
	Order     string `query:"order"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string       `json:"message"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

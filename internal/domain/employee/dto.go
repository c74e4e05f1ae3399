package employee

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Name           string           `json:"name" validate:"required,max=150"`
	Email          string           `json:"email" validate:"required,email"`
	EmploymentType string           `json:"employment_type" validate:"required,oneof=permanent contract freelance"`
	PayType        string           `json:"pay_type" validate:"required,oneof=monthly per_session"`
	BaseSalary     *decimal.Decimal `json:"base_salary,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)
	checkBaseSalary(&errs, r.BaseSalary)
	return errs.Err()
}

type UpdateEmployeeRequest struct {
	ID               string           `json:"-"`
	Name             *string          `json:"name,omitempty" validate:"omitempty,max=150"`
	Email            *string          `json:"email,omitempty" validate:"omitempty,email"`
	EmploymentType   *string          `json:"employment_type,omitempty" validate:"omitempty,oneof=permanent contract freelance"`
	PayType          *string          `json:"pay_type,omitempty" validate:"omitempty,oneof=monthly per_session"`
	BaseSalary       *decimal.Decimal `json:"base_salary,omitempty"`
	EmploymentStatus *string          `json:"employment_status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	checkBaseSalary(&errs, r.BaseSalary)
	return errs.Err()
}

func checkBaseSalary(errs *validator.ValidationErrors, salary *decimal.Decimal) {
	if salary != nil && salary.IsNegative() {
		errs.Add("base_salary", "base_salary must not be negative")
	}
}

type EmployeeFilter struct {
	Status  *string
	PayType *string
	Page    int
	Limit   int
}

type EmployeeResponse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	EmploymentType   string           `json:"employment_type"`
	PayType          string           `json:"pay_type"`
	BaseSalary       *decimal.Decimal `json:"base_salary,omitempty"`
	EmploymentStatus string           `json:"employment_status"`
	CreatedAt        string           `json:"created_at"`
	UpdatedAt        string           `json:"updated_at"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

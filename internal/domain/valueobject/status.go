package valueobject

import "github.com/ignatzorin/designer-studio/internal/pkg/apperror"

// OrderStatus жизненный цикл заказа. Переходы не проверяются:
// оператор может выставить любое значение.
type OrderStatus string

const (
	OrderStatusDraft         OrderStatus = "draft"
	OrderStatusBriefReceived OrderStatus = "brief_received"
	OrderStatusInProgress    OrderStatus = "in_progress"
	OrderStatusReview        OrderStatus = "review"
	OrderStatusCompleted     OrderStatus = "completed"
	OrderStatusCancelled     OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusBriefReceived, OrderStatusInProgress,
		OrderStatusReview, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsActive заказ в работе с точки зрения клиента.
func (s OrderStatus) IsActive() bool {
	switch s {
	case OrderStatusBriefReceived, OrderStatusInProgress, OrderStatusReview:
		return true
	}
	return false
}

func NewOrderStatus(status string) (OrderStatus, error) {
	s := OrderStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заказа")
	}
	return s, nil
}

// StageStatus состояние одного этапа заказа.
type StageStatus string

const (
	StageStatusPending    StageStatus = "pending"
	StageStatusInProgress StageStatus = "in_progress"
	StageStatusCompleted  StageStatus = "completed"
	StageStatusBlocked    StageStatus = "blocked"
)

func (s StageStatus) IsValid() bool {
	switch s {
	case StageStatusPending, StageStatusInProgress, StageStatusCompleted, StageStatusBlocked:
		return true
	}
	return false
}

func NewStageStatus(status string) (StageStatus, error) {
	s := StageStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус этапа")
	}
	return s, nil
}

// ServiceType направление работ в брифе. Пустое значение допустимо.
type ServiceType string

const (
	ServiceTypeWebDesign ServiceType = "web_design"
	ServiceTypeBranding  ServiceType = "branding"
	ServiceTypeUIUX      ServiceType = "ui_ux"
	ServiceTypeOther     ServiceType = "other"
)

func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceTypeWebDesign, ServiceTypeBranding, ServiceTypeUIUX, ServiceTypeOther:
		return true
	}
	return false
}

// NewServiceType возвращает nil для пустой строки.
func NewServiceType(value string) (*ServiceType, error) {
	if value == "" {
		return nil, nil
	}
	t := ServiceType(value)
	if !t.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный тип услуги")
	}
	return &t, nil
}

// PortfolioCategory категория работы в портфолио.
type PortfolioCategory string

const (
	CategoryWebDesign PortfolioCategory = "web_design"
	CategoryUIUX      PortfolioCategory = "ui_ux"
	CategoryBranding  PortfolioCategory = "branding"
	CategoryMotion    PortfolioCategory = "motion"
)

func (c PortfolioCategory) IsValid() bool {
	switch c {
	case CategoryWebDesign, CategoryUIUX, CategoryBranding, CategoryMotion:
		return true
	}
	return false
}

func NewPortfolioCategory(value string) (PortfolioCategory, error) {
	c := PortfolioCategory(value)
	if !c.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректная категория")
	}
	return c, nil
}

package valueobject

import (
	"math"
	"strconv"
	"strings"

	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
)

// ParseBudget разбирает бюджет из формы. Пустая строка означает "не указан".
// Допускаются пробелы-разделители разрядов и запятая вместо точки.
func ParseBudget(raw string) (*float64, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil, nil
	}
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "бюджет должен быть числом")
	}
	return NewBudget(amount)
}

// NewBudget проверяет, что сумма конечна и неотрицательна.
func NewBudget(amount float64) (*float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, apperror.New(apperror.ErrCodeValidation, "бюджет должен быть числом")
	}
	if amount < 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "бюджет не может быть отрицательным")
	}
	return &amount, nil
}

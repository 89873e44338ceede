package validation

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxOrderTitleLength       = 200
	MaxOrderDescriptionLength = 5000
	MaxCommentLength          = 5000
	MaxNameLength             = 100
	MaxAttachmentURLLength    = 1000
	MaxBudget                 = 100000000.0 // 100 миллионов
)

// ValidateLength проверяет длину строки в символах. Нулевая граница не проверяется.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateOrderTitle проверяет название заказа.
func ValidateOrderTitle(title string) error {
	if err := ValidateNonEmpty("название заказа", title); err != nil {
		return err
	}
	return ValidateLength("название заказа", strings.TrimSpace(title), 0, MaxOrderTitleLength)
}

// ValidateOrderDescription описание необязательно.
func ValidateOrderDescription(description string) error {
	return ValidateLength("описание", strings.TrimSpace(description), 0, MaxOrderDescriptionLength)
}

// ValidateBudget проверяет бюджет брифа.
func ValidateBudget(budget *float64) error {
	if budget == nil {
		return nil
	}
	if math.IsNaN(*budget) || math.IsInf(*budget, 0) {
		return fmt.Errorf("бюджет должен быть числом")
	}
	if *budget < 0 {
		return fmt.Errorf("бюджет не может быть отрицательным")
	}
	if *budget > MaxBudget {
		return fmt.Errorf("бюджет не может превышать %.0f", MaxBudget)
	}
	return nil
}

// ValidateCommentContent проверяет текст комментария.
func ValidateCommentContent(content string) error {
	if err := ValidateNonEmpty("комментарий", content); err != nil {
		return err
	}
	return ValidateLength("комментарий", strings.TrimSpace(content), 0, MaxCommentLength)
}

// ValidateAttachmentURL допускает абсолютный http(s) адрес или путь от корня.
func ValidateAttachmentURL(link string) error {
	if len(link) > MaxAttachmentURLLength {
		return fmt.Errorf("ссылка на вложение должна быть не более %d символов", MaxAttachmentURLLength)
	}
	if strings.HasPrefix(link, "/") && !strings.HasPrefix(link, "//") {
		return nil
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("некорректная ссылка на вложение")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("ссылка на вложение должна начинаться с http:// или https://")
	}
	if parsed.Host == "" {
		return fmt.Errorf("ссылка на вложение должна содержать доменное имя")
	}
	return nil
}

// ValidateName проверяет имя пользователя Telegram.
func ValidateName(fieldName, value string) error {
	return ValidateLength(fieldName, strings.TrimSpace(value), 0, MaxNameLength)
}

package valueobject

import "strconv"

// Цветовые токены интерфейса.
const (
	ColorSubtle = "subtle"
	ColorBlue   = "blue"
	ColorYellow = "yellow"
	ColorPurple = "purple"
	ColorGreen  = "green"
	ColorRed    = "red"
)

// Badge подпись и цвет для отображения значения перечисления.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// OrderStatusBadge неизвестный статус показывается как есть в нейтральном цвете.
func OrderStatusBadge(s OrderStatus) Badge {
	switch s {
	case OrderStatusDraft:
		return Badge{Label: "Черновик", Color: ColorSubtle}
	case OrderStatusBriefReceived:
		return Badge{Label: "Бриф получен", Color: ColorBlue}
	case OrderStatusInProgress:
		return Badge{Label: "В работе", Color: ColorYellow}
	case OrderStatusReview:
		return Badge{Label: "На проверке", Color: ColorPurple}
	case OrderStatusCompleted:
		return Badge{Label: "Завершен", Color: ColorGreen}
	case OrderStatusCancelled:
		return Badge{Label: "Отменен", Color: ColorRed}
	default:
		return Badge{Label: string(s), Color: ColorSubtle}
	}
}

func StageStatusBadge(s StageStatus) Badge {
	switch s {
	case StageStatusCompleted:
		return Badge{Label: "Завершено", Color: ColorGreen}
	case StageStatusInProgress:
		return Badge{Label: "В работе", Color: ColorBlue}
	case StageStatusBlocked:
		return Badge{Label: "Ожидание", Color: ColorRed}
	case StageStatusPending:
		return Badge{Label: "Ожидание", Color: ColorSubtle}
	default:
		return Badge{Label: "Ожидание", Color: ColorSubtle}
	}
}

// StageMarker значок шага в таймлайне, для ожидающих этапов это номер шага.
func StageMarker(s StageStatus, index int) string {
	switch s {
	case StageStatusCompleted:
		return "✓"
	case StageStatusInProgress:
		return "⋯"
	case StageStatusBlocked:
		return "!"
	default:
		return strconv.Itoa(index + 1)
	}
}

func ServiceTypeBadge(t ServiceType) Badge {
	switch t {
	case ServiceTypeWebDesign:
		return Badge{Label: "🌐 Веб-дизайн", Color: ColorBlue}
	case ServiceTypeUIUX:
		return Badge{Label: "🎨 UI/UX Дизайн", Color: ColorPurple}
	case ServiceTypeBranding:
		return Badge{Label: "🏢 Брендинг", Color: ColorYellow}
	case ServiceTypeOther:
		return Badge{Label: "💼 Другое", Color: ColorSubtle}
	default:
		return Badge{Label: string(t), Color: ColorSubtle}
	}
}

func CategoryBadge(c PortfolioCategory) Badge {
	switch c {
	case CategoryWebDesign:
		return Badge{Label: "🌐 Веб-дизайн", Color: ColorBlue}
	case CategoryUIUX:
		return Badge{Label: "🎨 UI/UX", Color: ColorPurple}
	case CategoryBranding:
		return Badge{Label: "🏢 Брендинг", Color: ColorYellow}
	case CategoryMotion:
		return Badge{Label: "✨ Моушн", Color: ColorGreen}
	default:
		return Badge{Label: string(c), Color: ColorSubtle}
	}
}

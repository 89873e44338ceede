package realtime

// Op тип изменения строки.
type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
)

// Таблицы, по которым идёт лента изменений.
const (
	TableOrders        = "orders"
	TableOrderStages   = "order_stages"
	TableOrderComments = "order_comments"
)

// Event одно изменение строки из ленты row_changes.
type Event struct {
	Table    string `json:"table"`
	Op       Op     `json:"op"`
	ID       string `json:"id"`
	ClientID string `json:"client_id,omitempty"`
	OrderID  string `json:"order_id,omitempty"`
}

// Field возвращает значение колонки, по которой можно фильтровать подписку.
func (e Event) Field(column string) (string, bool) {
	switch column {
	case "id":
		return e.ID, true
	case "client_id":
		return e.ClientID, e.ClientID != ""
	case "order_id":
		return e.OrderID, e.OrderID != ""
	default:
		return "", false
	}
}

// Topic пара (таблица, фильтр column=eq.value). Пустой Column означает все строки таблицы.
type Topic struct {
	Table  string
	Column string
	Value  string
}

// Matches проверяет, относится ли событие к подписке.
func (t Topic) Matches(e Event) bool {
	if t.Table != e.Table {
		return false
	}
	if t.Column == "" {
		return true
	}
	v, ok := e.Field(t.Column)
	return ok && v == t.Value
}

func (t Topic) String() string {
	if t.Column == "" {
		return t.Table
	}
	return t.Table + ":" + t.Column + "=eq." + t.Value
}

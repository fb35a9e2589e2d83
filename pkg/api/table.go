package api

import "strings"

// Системные свойства записи, которые понимает сервер таблиц
const (
	PropertyID        = "id"
	PropertyVersion   = "version"
	PropertyUpdatedAt = "updatedAt"
	PropertyDeleted   = "deleted"
)

// Параметры строки запроса
const (
	ParamFilter         = "$filter"
	ParamOrderBy        = "$orderby"
	ParamSkip           = "$skip"
	ParamTop            = "$top"
	ParamSelect         = "$select"
	ParamInlineCount    = "$inlinecount"
	ParamIncludeDeleted = "__includeDeleted"
)

// HTTP заголовки
const (
	HeaderAPIVersion = "ZUMO-API-VERSION"
	HeaderFeatures   = "X-ZUMO-FEATURES"
	HeaderIfMatch    = "If-Match"
	HeaderLink       = "Link"

	// APIVersion версия протокола таблиц, которую отправляет клиент
	APIVersion = "3.0.0"
)

// Features is a bitmask of client features reported to the server
// in the X-ZUMO-FEATURES header.
type Features int

const (
	FeatureNone            Features = 0
	FeatureOffline         Features = 1 << iota // OL
	FeatureIncrementalPull                      // IP
	FeatureUntypedTable                         // TU
)

// String returns the comma separated feature codes in a stable order.
func (f Features) String() string {
	var codes []string
	if f&FeatureIncrementalPull != 0 {
		codes = append(codes, "IP")
	}
	if f&FeatureOffline != 0 {
		codes = append(codes, "OL")
	}
	if f&FeatureUntypedTable != 0 {
		codes = append(codes, "TU")
	}
	return strings.Join(codes, ",")
}

// PageResponse is the wrapped form of a read response when the server
// includes a total count.
type PageResponse struct {
	Results []map[string]any `json:"results"`
	Count   *int64           `json:"count,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

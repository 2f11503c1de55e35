package domain

// AuthorRole identifies who produced a chat message.
type AuthorRole string

const (
	AuthorRoleUser AuthorRole = "USER"
	AuthorRoleAI   AuthorRole = "AI"
)

// SensitiveDataType is a category of sensitive content detected in user input.
type SensitiveDataType string

const (
	SensitiveDataSSN SensitiveDataType = "SSN"
)

// LlmModel identifies the language model that produced an answer.
type LlmModel string

const (
	LlmLlama3_8B LlmModel = "LLAMA3_8B"
)

// Product is a product line the assistant can answer questions about.
type Product string

const (
	ProductPowerStore Product = "POWERSTORE"
	ProductPowerEdge  Product = "POWEREDGE"
	ProductPowerScale Product = "POWERSCALE"
	ProductUnity      Product = "UNITY"
)

// KnownProducts lists every product the question scanner recognizes.
var KnownProducts = []Product{ProductPowerStore, ProductPowerEdge, ProductPowerScale, ProductUnity}

// FeedbackRating is a thumbs up/down rating on an AI message.
type FeedbackRating string

const (
	FeedbackThumbsUp   FeedbackRating = "THUMBS_UP"
	FeedbackThumbsDown FeedbackRating = "THUMBS_DOWN"
)

// FeedbackCategory classifies negative feedback.
type FeedbackCategory string

const (
	FeedbackCategoryInaccurate FeedbackCategory = "INACCURATE"
	FeedbackCategoryIncomplete FeedbackCategory = "INCOMPLETE"
	FeedbackCategoryOther      FeedbackCategory = "OTHER"
)

// Layout tags a tool response with how the client should render it.
type Layout string

const (
	LayoutLineChart    Layout = "LINE_CHART"
	LayoutAnomalyChart Layout = "ANOMALY_CHART"
)

// GraphTime is the time range requested for a metric or anomaly graph.
type GraphTime string

const (
	GraphTimeOneHour  GraphTime = "ONE_HOUR"
	GraphTimeOneDay   GraphTime = "ONE_DAY"
	GraphTimeOneWeek  GraphTime = "ONE_WEEK"
	GraphTimeOneMonth GraphTime = "ONE_MONTH"
)

// Span returns the unit and duration the reporting backend expects.
func (g GraphTime) Span() (unit string, duration int) {
	switch g {
	case GraphTimeOneHour:
		return "hour", 1
	case GraphTimeOneWeek:
		return "week", 1
	case GraphTimeOneMonth:
		return "month", 1
	default:
		return "day", 1
	}
}

// Package models defines the query log row type and the JSON shapes served
// by the dashboard endpoints.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Constants filled in where the table has no data of its own.
const (
	// DefaultModelID is reported for every record; the table does not
	// store which model answered.
	DefaultModelID         = "claude-3-haiku"
	DefaultKnowledgeBaseID = "general-kb"
	DefaultQueryStatus     = "completed"
)

const (
	timestampLayout       = "2006-01-02T15:04:05"
	timestampLayoutMicros = "2006-01-02T15:04:05.000000"
	zoneOffsetLayout      = "-07:00"
)

// TrustCategory is the stored lowercase trust bucket of a record.
type TrustCategory string

// Stored trust categories.
const (
	TrustHigh    TrustCategory = "high"
	TrustMedium  TrustCategory = "medium"
	TrustLow     TrustCategory = "low"
	TrustUnknown TrustCategory = "unknown"
)

// Display labels used by the query log listing.
const (
	TrustLabelHigh   = "ALTO"
	TrustLabelMedium = "MEDIO"
	TrustLabelLow    = "BAJO"
)

// DisplayLabel returns the listing label for c. Anything other than high
// or low is reported as MEDIO.
func (c TrustCategory) DisplayLabel() string {
	switch c {
	case TrustHigh:
		return TrustLabelHigh
	case TrustLow:
		return TrustLabelLow
	default:
		return TrustLabelMedium
	}
}

// QueryLogRecord is one web_queries row as read from the database.
// Nullable columns are pointers.
type QueryLogRecord struct {
	ID        string
	UserID    *string
	CreatedAt *time.Time
	// CreatedAtZoned is set when created_at is a time zone aware column;
	// its timestamps are rendered with their offset.
	CreatedAtZoned     bool
	PersonName         *string
	AppName            *string
	UserName           *string
	SessionToken       *string
	ConversationID     *string
	QueryText          *string
	LLMResponse        *string
	Status             *string
	ResponseTimeMs     *float64
	TokensInput        *int64
	TokensOutput       *int64
	TokensTotal        *int64
	ConfidenceScore    *float64
	TrustCategory      *string
	ToolsUsed          []byte
	ToolResults        []byte
	RetrievedDocsCount *int64
}

// QueryLogListItem is the shape of one row in the query log listing.
type QueryLogListItem struct {
	QueryID               string  `json:"query_id"`
	UserID                *string `json:"user_id"`
	RequestTimestamp      *string `json:"request_timestamp"`
	Person                *string `json:"person"`
	PersonName            *string `json:"person_name"`
	Team                  *string `json:"team"`
	IAMGroup              *string `json:"iam_group"`
	UserName              *string `json:"user_name"`
	SessionToken          *string `json:"session_token"`
	ConversationIDBedrock *string `json:"conversation_id_bedrock"`
	UserQuery             *string `json:"user_query"`
	LLMResponse           *string `json:"llm_response"`
	Status                string  `json:"status"`
	ProcessingTimeMs      float64 `json:"processing_time_ms"`
	TokensInput           *int64  `json:"tokens_input"`
	TokensOutput          *int64  `json:"tokens_output"`
	TokensTotal           *int64  `json:"tokens_total"`
	TokensUsed            *int64  `json:"tokens_used"`
	ModelID               string  `json:"model_id"`
	KnowledgeBaseID       string  `json:"knowledge_base_id"`
	LLMTrust              float64 `json:"llm_trust"`
	ConfidenceScore       float64 `json:"confidence_score"`
	LLMTrustCategory      string  `json:"llm_trust_category"`
	ToolsUsed             any     `json:"tools_used"`
	ToolResults           any     `json:"tool_results"`
}

// QueryLogDetail is the shape of a single record lookup. Unlike the
// listing it keeps the raw trust category and adds response_time_ms and
// retrieved_docs_count.
type QueryLogDetail struct {
	QueryID               string  `json:"query_id"`
	UserID                *string `json:"user_id"`
	RequestTimestamp      *string `json:"request_timestamp"`
	Person                *string `json:"person"`
	PersonName            *string `json:"person_name"`
	Team                  *string `json:"team"`
	IAMGroup              *string `json:"iam_group"`
	UserName              *string `json:"user_name"`
	SessionToken          *string `json:"session_token"`
	ConversationIDBedrock *string `json:"conversation_id_bedrock"`
	UserQuery             *string `json:"user_query"`
	LLMResponse           *string `json:"llm_response"`
	Status                string  `json:"status"`
	ProcessingTimeMs      float64 `json:"processing_time_ms"`
	ResponseTimeMs        float64 `json:"response_time_ms"`
	TokensInput           *int64  `json:"tokens_input"`
	TokensOutput          *int64  `json:"tokens_output"`
	TokensTotal           *int64  `json:"tokens_total"`
	TokensUsed            *int64  `json:"tokens_used"`
	RetrievedDocsCount    *int64  `json:"retrieved_docs_count"`
	ModelID               string  `json:"model_id"`
	KnowledgeBaseID       string  `json:"knowledge_base_id"`
	LLMTrust              float64 `json:"llm_trust"`
	ConfidenceScore       float64 `json:"confidence_score"`
	LLMTrustCategory      *string `json:"llm_trust_category"`
	ToolsUsed             any     `json:"tools_used"`
	ToolResults           any     `json:"tool_results"`
}

// QueryLogPage is the paginated listing response.
type QueryLogPage struct {
	Data   []QueryLogListItem `json:"data"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// NewQueryLogListItem maps a stored record to the listing shape.
func NewQueryLogListItem(r *QueryLogRecord) QueryLogListItem {
	category := TrustCategory("")
	if r.TrustCategory != nil {
		category = TrustCategory(*r.TrustCategory)
	}
	return QueryLogListItem{
		QueryID:               r.ID,
		UserID:                r.UserID,
		RequestTimestamp:      r.requestTimestamp(),
		Person:                r.PersonName,
		PersonName:            r.PersonName,
		Team:                  r.AppName,
		IAMGroup:              r.AppName,
		UserName:              r.UserName,
		SessionToken:          r.SessionToken,
		ConversationIDBedrock: r.ConversationID,
		UserQuery:             r.QueryText,
		LLMResponse:           r.LLMResponse,
		Status:                stringOr(r.Status, DefaultQueryStatus),
		ProcessingTimeMs:      floatOrZero(r.ResponseTimeMs),
		TokensInput:           r.TokensInput,
		TokensOutput:          r.TokensOutput,
		TokensTotal:           r.TokensTotal,
		TokensUsed:            r.TokensTotal,
		ModelID:               DefaultModelID,
		KnowledgeBaseID:       stringOr(r.AppName, DefaultKnowledgeBaseID),
		LLMTrust:              floatOrZero(r.ConfidenceScore),
		ConfidenceScore:       floatOrZero(r.ConfidenceScore),
		LLMTrustCategory:      category.DisplayLabel(),
		ToolsUsed:             JSONValue(r.ToolsUsed),
		ToolResults:           JSONValue(r.ToolResults),
	}
}

// NewQueryLogDetail maps a stored record to the detail shape.
func NewQueryLogDetail(r *QueryLogRecord) QueryLogDetail {
	return QueryLogDetail{
		QueryID:               r.ID,
		UserID:                r.UserID,
		RequestTimestamp:      r.requestTimestamp(),
		Person:                r.PersonName,
		PersonName:            r.PersonName,
		Team:                  r.AppName,
		IAMGroup:              r.AppName,
		UserName:              r.UserName,
		SessionToken:          r.SessionToken,
		ConversationIDBedrock: r.ConversationID,
		UserQuery:             r.QueryText,
		LLMResponse:           r.LLMResponse,
		Status:                stringOr(r.Status, DefaultQueryStatus),
		ProcessingTimeMs:      floatOrZero(r.ResponseTimeMs),
		ResponseTimeMs:        floatOrZero(r.ResponseTimeMs),
		TokensInput:           r.TokensInput,
		TokensOutput:          r.TokensOutput,
		TokensTotal:           r.TokensTotal,
		TokensUsed:            r.TokensTotal,
		RetrievedDocsCount:    r.RetrievedDocsCount,
		ModelID:               DefaultModelID,
		KnowledgeBaseID:       stringOr(r.AppName, DefaultKnowledgeBaseID),
		LLMTrust:              floatOrZero(r.ConfidenceScore),
		ConfidenceScore:       floatOrZero(r.ConfidenceScore),
		LLMTrustCategory:      r.TrustCategory,
		ToolsUsed:             JSONValue(r.ToolsUsed),
		ToolResults:           JSONValue(r.ToolResults),
	}
}

func (r *QueryLogRecord) requestTimestamp() *string {
	if r.CreatedAtZoned {
		return FormatZonedTimestamp(r.CreatedAt)
	}
	return FormatTimestamp(r.CreatedAt)
}

// FormatTimestamp renders t as ISO-8601 without a zone offset, adding
// microseconds only when they are non-zero. A nil time stays nil.
func FormatTimestamp(t *time.Time) *string {
	return formatTimestamp(t, "")
}

// FormatZonedTimestamp is FormatTimestamp followed by the numeric offset
// of t, e.g. "+00:00".
func FormatZonedTimestamp(t *time.Time) *string {
	return formatTimestamp(t, zoneOffsetLayout)
}

func formatTimestamp(t *time.Time, zone string) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	layout := timestampLayout
	if t.Nanosecond()/1000 != 0 {
		layout = timestampLayoutMicros
	}
	s := t.Format(layout + zone)
	return &s
}

// JSONValue passes stored JSON through untouched. Text that is not valid
// JSON is returned as a plain string; NULL stays nil.
func JSONValue(b []byte) any {
	if b == nil {
		return nil
	}
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" {
		return string(b)
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	return string(b)
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

package model

// StreamEventType names a progress event on the query stream.
type StreamEventType string

const (
	StreamConnected       StreamEventType = "connected"
	StreamLoadingTables   StreamEventType = "loading_tables"
	StreamTablesLoaded    StreamEventType = "tables_loaded"
	StreamBuildingContext StreamEventType = "building_context"
	StreamGeneratingSQL   StreamEventType = "generating_sql"
	StreamSQLGenerated    StreamEventType = "sql_generated"
	StreamExecutingSQL    StreamEventType = "executing_sql"
	StreamSQLExecuted     StreamEventType = "sql_executed"
	StreamHumanizing      StreamEventType = "humanizing"
	StreamResponse        StreamEventType = "response"
	StreamError           StreamEventType = "error"
	StreamEnd             StreamEventType = "end"
)

// Terminal reports whether no further events follow for the current question.
func (t StreamEventType) Terminal() bool {
	return t == StreamEnd
}

// StreamEvent is one message from the query stream. Only the fields relevant to
// Type are populated.
type StreamEvent struct {
	Type      StreamEventType `json:"type"`
	Message   string          `json:"message,omitempty"`
	ErrorType string          `json:"error_type,omitempty"`

	// tables_loaded
	AvailableTables []string `json:"available_tables,omitempty"`
	Count           int      `json:"count,omitempty"`

	// sql_generated, response
	SQLQuery    string `json:"sql_query,omitempty"`
	Explanation string `json:"explanation,omitempty"`

	// sql_executed
	ResultsCount int              `json:"results_count,omitempty"`
	Preview      []map[string]any `json:"preview,omitempty"`

	// response
	Question          string   `json:"question,omitempty"`
	SQLExplanation    string   `json:"sql_explanation,omitempty"`
	TablesUsed        []string `json:"tables_used,omitempty"`
	HumanizedResponse string   `json:"humanized_response,omitempty"`
}

// Result converts a response event into a QueryResult.
func (e StreamEvent) Result() (QueryResult, bool) {
	if e.Type != StreamResponse {
		return QueryResult{}, false
	}
	return QueryResult{
		Question:          e.Question,
		SQLQuery:          e.SQLQuery,
		SQLExplanation:    e.SQLExplanation,
		TablesUsed:        e.TablesUsed,
		ResultsCount:      e.ResultsCount,
		HumanizedResponse: e.HumanizedResponse,
		AvailableTables:   e.AvailableTables,
	}, true
}

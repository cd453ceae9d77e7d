package model

// QueryResult is the answer to a natural-language question.
type QueryResult struct {
	Question          string           `json:"question"`
	SQLQuery          string           `json:"sql_query"`
	SQLExplanation    string           `json:"sql_explanation"`
	TablesUsed        []string         `json:"tables_used"`
	ResultsCount      int              `json:"results_count"`
	HumanizedResponse string           `json:"humanized_response"`
	RawResults        []map[string]any `json:"raw_results,omitempty"`
	AvailableTables   []string         `json:"available_tables,omitempty"`
}

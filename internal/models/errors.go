package models

// ErrorKind classifies a degraded response.
type ErrorKind string

const (
	// ErrorEngineUnavailable means the engine could not be reached or is closed.
	ErrorEngineUnavailable ErrorKind = "engine_unavailable"
	// ErrorQueryExecution means the engine rejected the query.
	ErrorQueryExecution ErrorKind = "query_execution"
	// ErrorFilterApplication means a single filter could not be translated.
	ErrorFilterApplication ErrorKind = "filter_application"
	// ErrorIndexing means a record could not be normalized or committed.
	ErrorIndexing ErrorKind = "indexing"
)

package http

// SummarizeCodeRequest is the request body for POST /summarize-code.
type SummarizeCodeRequest struct {
	CodeBlock    string `json:"codeBlock"`
	Owner        string `json:"owner"`
	Repo         string `json:"repo"`
	FilePath     string `json:"filePath"`
	SummarizeAll bool   `json:"summarizeAll"`
}

// SummarizePriorityFilesRequest is the request body for
// POST /summarize-priority-files.
type SummarizePriorityFilesRequest struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

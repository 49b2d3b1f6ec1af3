package domain

import "fmt"

// SystemPrompt is sent as the system message of every question.
const SystemPrompt = "You are a helpful assistant specialized in analyzing CSV data."

const userPromptTemplate = `You are an AI assistant with access to a CSV file containing bird observations in Hong Kong. The CSV content is:

%s

Answer the following query based on the CSV data: %s`

// BuildPrompt embeds the raw CSV verbatim followed by the user's query.
func BuildPrompt(rawCSV, query string) string {
	return fmt.Sprintf(userPromptTemplate, rawCSV, query)
}

// CompletionRequest is a single chat completion call to the model API.
type CompletionRequest struct {
	APIKey string
	System string
	Prompt string
}

// Completion is the model's answer.
type Completion struct {
	Model  string
	Answer string
}

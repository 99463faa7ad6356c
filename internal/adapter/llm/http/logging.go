package http

import (
	"fmt"
	"regexp"
)

// MaxLoggedResponseLength caps how much raw model output lands in logs.
// Responses can contain user source code; the head is enough for debugging.
const MaxLoggedResponseLength = 200

// TruncateForLogging shortens a response string for safe logging.
func TruncateForLogging(response string) string {
	if len(response) <= MaxLoggedResponseLength {
		return response
	}
	return response[:MaxLoggedResponseLength] + fmt.Sprintf("... [truncated, total length=%d bytes]", len(response))
}

// secretParamPatterns match query parameters that carry credentials.
var secretParamPatterns = []string{
	`key=([^&"\s]+)`,
	`apiKey=([^&"\s]+)`,
	`api_key=([^&"\s]+)`,
	`token=([^&"\s]+)`,
	`access_token=([^&"\s]+)`,
}

// RedactURLSecrets redacts credential-bearing query parameters from URLs
// embedded in error messages before they reach the process log.
//
//	input:  "https://api.example.com/endpoint?key=secret123&foo=bar"
//	output: "https://api.example.com/endpoint?key=[REDACTED]&foo=bar"
func RedactURLSecrets(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, pattern := range secretParamPatterns {
		re := regexp.MustCompile(pattern)
		paramName := pattern[:len(pattern)-len(`=([^&"\s]+)`)]
		result = re.ReplaceAllString(result, paramName+"=[REDACTED]")
	}
	return result
}

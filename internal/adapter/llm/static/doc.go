// Package static provides a mock LLM provider that returns a static,
// pre-determined set of review comments. This is useful for dry runs
// and for testing the pipeline without making live API calls.
package static

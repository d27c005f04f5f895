// Package normalize turns HTML or plain text into model.NormalizedText.
package normalize

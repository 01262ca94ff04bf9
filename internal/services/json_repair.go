package services

import (
	"encoding/json"
	"errors"
	"strings"
)

const repairAttempts = 2

// RecoverJSON extracts a JSON object from an LLM response. The cleaned text is
// parsed first; if that fails, everything outside the outermost braces is
// dropped and the parse is retried exactly once.
func RecoverJSON(raw string) (json.RawMessage, error) {
	cleaned := stripCodeFence(raw)

	firstErr := validateObject(cleaned)
	if firstErr == nil {
		return json.RawMessage(cleaned), nil
	}

	trimmed := trimToBraces(cleaned)
	secondErr := validateObject(trimmed)
	if secondErr == nil {
		return json.RawMessage(trimmed), nil
	}

	return nil, &UnparseableResponseError{
		Raw:       raw,
		Attempts:  repairAttempts,
		FirstErr:  firstErr,
		SecondErr: secondErr,
	}
}

// stripCodeFence removes a leading ``` (with optional language tag) and a
// trailing ``` from the response.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.IndexByte(text, '\n'); nl != -1 && !strings.ContainsAny(text[:nl], "{[\"") {
			text = text[nl+1:]
		} else {
			text = strings.TrimLeft(text, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func trimToBraces(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}

func validateObject(text string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return err
	}
	if obj == nil {
		return errors.New("response is not a JSON object")
	}
	return nil
}

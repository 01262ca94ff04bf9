package services

import (
	"errors"
	"strings"
	"testing"
)

const sampleObject = `{"match_score": 72, "summary": "Solid {backend} fit", "gaps": ["k8s"]}`

func TestRecoverJSONRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{name: "clean", raw: sampleObject},
		{name: "surrounding whitespace", raw: "\n\t " + sampleObject + " \n"},
		{name: "json fence", raw: "```json\n" + sampleObject + "\n```"},
		{name: "bare fence", raw: "```\n" + sampleObject + "\n```"},
		{name: "single line fence", raw: "```json " + sampleObject + "```"},
		{name: "leading prose", raw: "Sure! Here is the analysis:\n" + sampleObject},
		{name: "trailing prose", raw: sampleObject + "\nLet me know if you need anything else."},
		{name: "prose and fences", raw: "Here you go:\n```json\n" + sampleObject + "\n```\nThanks!"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := RecoverJSON(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != sampleObject {
				t.Fatalf("expected embedded object unchanged, got %s", got)
			}
		})
	}
}

func TestRecoverJSONFailsAfterOneRetry(t *testing.T) {
	t.Parallel()

	cases := []string{
		"I could not evaluate this resume.",
		"",
		"} backwards {",
		"```json\n{\"match_score\": 72,\n```",
		"null",
		"[1, 2, 3]",
	}

	for _, raw := range cases {
		_, err := RecoverJSON(raw)
		if !errors.Is(err, ErrUnparseableResponse) {
			t.Fatalf("RecoverJSON(%q): expected unparseable error, got %v", raw, err)
		}

		var ue *UnparseableResponseError
		if !errors.As(err, &ue) {
			t.Fatalf("expected *UnparseableResponseError, got %T", err)
		}
		if ue.Attempts != 2 {
			t.Fatalf("expected exactly two parse attempts, got %d", ue.Attempts)
		}
		if ue.FirstErr == nil || ue.SecondErr == nil {
			t.Fatalf("expected both parse errors to be recorded: %+v", ue)
		}
		if ue.Raw != raw {
			t.Fatalf("expected raw response to be kept for diagnostics")
		}
		if ErrorKindOf(err) != KindUnparseableResponse {
			t.Fatalf("unexpected kind %q", ErrorKindOf(err))
		}
	}
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	got := stripCodeFence("```JSON\n{\"a\":1}\n```")
	if got != `{"a":1}` {
		t.Fatalf("unexpected result %q", got)
	}
	if got := stripCodeFence("  plain  "); got != "plain" {
		t.Fatalf("unexpected result %q", got)
	}
	if strings.Contains(stripCodeFence("```{\"a\":1}```"), "`") {
		t.Fatalf("expected fences removed")
	}
}

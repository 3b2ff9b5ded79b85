package convo_test

import (
	"errors"
	"testing"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

func TestParseDate(t *testing.T) {
	got, err := convo.ParseDate("25/12/2023")
	if err != nil {
		t.Fatalf("ParseDate err: %v", err)
	}
	if got != "2023-12-25T13:00:00" {
		t.Fatalf("unexpected timestamp: got %s", got)
	}
}

func TestParseDatePadsSingleDigits(t *testing.T) {
	got, err := convo.ParseDate("1/2/2024")
	if err != nil {
		t.Fatalf("ParseDate err: %v", err)
	}
	if got != "2024-02-01T13:00:00" {
		t.Fatalf("unexpected timestamp: got %s", got)
	}
}

func TestParseDateRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{
		"",
		"tomorrow",
		"25-12-2023",
		"25/12",
		"25/12/2023/4",
		"aa/bb/cccc",
		"32/01/2023",
		"29/02/2023",
		"01/13/2023",
	} {
		if _, err := convo.ParseDate(input); !errors.Is(err, convo.ErrMalformedDate) {
			t.Fatalf("ParseDate(%q): expected ErrMalformedDate, got %v", input, err)
		}
	}
}

func TestParseDateAcceptsLeapDay(t *testing.T) {
	got, err := convo.ParseDate("29/02/2024")
	if err != nil {
		t.Fatalf("ParseDate err: %v", err)
	}
	if got != "2024-02-29T13:00:00" {
		t.Fatalf("unexpected timestamp: got %s", got)
	}
}

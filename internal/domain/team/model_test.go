package team

import (
	"errors"
	"testing"
)

func TestKeyNumberRoundTrip(t *testing.T) {
	t.Parallel()

	for _, number := range []int{1, 254, 1678, 9999, 254176} {
		key := Key(number)
		got, err := Number(key)
		if err != nil {
			t.Fatalf("Number(%q) error: %v", key, err)
		}
		if got != number {
			t.Fatalf("round trip mismatch: got=%d want=%d", got, number)
		}
	}
}

func TestNumberRejectsMalformedKeys(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"", "254", "frc", "frcabc", "ftc254", "frc-1", "frc0"} {
		if _, err := Number(key); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("Number(%q): expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestAvatarPicksAvatarMedia(t *testing.T) {
	t.Parallel()

	media := []Media{
		{Type: "youtube"},
		{Type: "avatar", Base64Image: "Zm9v"},
	}
	if got := Avatar(media); got != "data:image/png;base64,Zm9v" {
		t.Fatalf("unexpected avatar: %q", got)
	}
	if got := Avatar([]Media{{Type: "avatar"}}); got != "" {
		t.Fatalf("expected empty avatar, got %q", got)
	}
}

package testfixtures

import (
	"testing"
	"time"
)

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("token")

	first := gen.Next()
	second := gen.Next()

	if first != "token-1" || second != "token-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
}

func TestFavoriteFixtureOverrides(t *testing.T) {
	plain := NewFavoriteFixture()
	custom := NewFavoriteFixture(
		WithFavoriteRoute("10"),
		WithFavoriteDepartureTime("09:30"),
		WithFavoriteInactive(),
	)

	if plain.ID == custom.ID {
		t.Fatal("fixtures must get distinct identifiers")
	}
	if !plain.IsActive {
		t.Fatal("default fixture must be active")
	}
	if plain.DayOfWeek != time.Wednesday {
		t.Fatalf("default fixture weekday %v, want Wednesday", plain.DayOfWeek)
	}
	if custom.RouteID != "10" || custom.RouteNumber != "10" {
		t.Fatalf("route override not applied: %+v", custom)
	}
	if custom.DepartureTime != "09:30" || custom.IsActive {
		t.Fatalf("overrides not applied: %+v", custom)
	}
}

package services

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/Belphemur/CineFinder/internal/models"
	"github.com/Belphemur/CineFinder/internal/store"
)

func TestPreferencesService_Theme(t *testing.T) {
	t.Parallel()
	p := NewPreferencesService(store.NewMemory())
	ctx := context.Background()

	theme, err := p.Theme(ctx, "alice")
	if err != nil {
		t.Fatalf("Theme: %v", err)
	}
	if theme != models.ThemeDark {
		t.Errorf("expected dark by default, got %s", theme)
	}

	next, err := p.ToggleTheme(ctx, "alice")
	if err != nil {
		t.Fatalf("ToggleTheme: %v", err)
	}
	if next != models.ThemeLight {
		t.Errorf("expected light after toggle, got %s", next)
	}
	if theme, _ := p.Theme(ctx, "alice"); theme != models.ThemeLight {
		t.Errorf("toggle was not persisted, got %s", theme)
	}

	if next, _ := p.ToggleTheme(ctx, "alice"); next != models.ThemeDark {
		t.Errorf("expected dark after second toggle, got %s", next)
	}

	if err := p.SetTheme(ctx, "bob", models.ThemeLight); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if theme, _ := p.Theme(ctx, "bob"); theme != models.ThemeLight {
		t.Errorf("expected light for bob, got %s", theme)
	}
	if theme, _ := p.Theme(ctx, "alice"); theme != models.ThemeDark {
		t.Errorf("bob's theme leaked to alice: %s", theme)
	}
}

func TestPreferencesService_RecentSearches(t *testing.T) {
	t.Parallel()
	p := NewPreferencesService(store.NewMemory())
	ctx := context.Background()

	empty, err := p.RecentSearches(ctx, "alice")
	if err != nil {
		t.Fatalf("RecentSearches: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected an empty non-nil history, got %#v", empty)
	}

	for _, q := range []string{"dune", "  alien ", "", "   ", "DUNE"} {
		if _, err := p.AddRecentSearch(ctx, "alice", q); err != nil {
			t.Fatalf("AddRecentSearch(%q): %v", q, err)
		}
	}

	got, _ := p.RecentSearches(ctx, "alice")
	want := []string{"DUNE", "alien"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if err := p.ClearRecentSearches(ctx, "alice"); err != nil {
		t.Fatalf("ClearRecentSearches: %v", err)
	}
	if got, _ := p.RecentSearches(ctx, "alice"); len(got) != 0 {
		t.Errorf("expected empty history after clear, got %v", got)
	}
}

func TestPreferencesService_RecentSearchesCapped(t *testing.T) {
	t.Parallel()
	p := NewPreferencesService(store.NewMemory())
	ctx := context.Background()

	var got []string
	for i := range MaxRecentSearches + 5 {
		got, _ = p.AddRecentSearch(ctx, "alice", fmt.Sprintf("query %d", i))
	}

	if len(got) != MaxRecentSearches {
		t.Fatalf("expected %d entries, got %d", MaxRecentSearches, len(got))
	}
	if got[0] != fmt.Sprintf("query %d", MaxRecentSearches+4) {
		t.Errorf("expected newest first, got %q", got[0])
	}
	if got[len(got)-1] != "query 5" {
		t.Errorf("expected oldest kept entry to be %q, got %q", "query 5", got[len(got)-1])
	}
}

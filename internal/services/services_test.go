package services

import (
	"testing"

	"github.com/Belphemur/CineFinder/internal/client"
	"github.com/Belphemur/CineFinder/internal/store"
	"github.com/Belphemur/CineFinder/internal/testutil"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestClient(t *testing.T) (client.Client, *testutil.FakeTMDB) {
	t.Helper()
	fake := testutil.NewFakeTMDB(t)
	c := client.NewClient(fake.Config())
	t.Cleanup(func() { _ = c.Close() })
	return c, fake
}

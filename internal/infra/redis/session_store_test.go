package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	_ = store.GetOrCreate("s1")
	if !mr.Exists("survey:session:s1") {
		t.Fatalf("expected redis key to be set")
	}

	store.Delete("s1")
	if mr.Exists("survey:session:s1") {
		t.Fatalf("expected redis key to be removed")
	}
}

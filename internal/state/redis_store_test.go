package state

import (
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisStoreRoundTrip(t *testing.T) {
	redis := miniredis.RunT(t)
	store, err := NewRedisStore(redis.Addr(), "")
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	overlay := map[string]int{"c1": 2}
	if err := store.SaveOverlay(overlay); err != nil {
		t.Fatalf("save overlay: %v", err)
	}
	got, err := store.LoadOverlay()
	if err != nil {
		t.Fatalf("load overlay: %v", err)
	}
	if !reflect.DeepEqual(got, overlay) {
		t.Fatalf("overlay round trip mismatch: %v", got)
	}

	ids := []string{"c1", "c3"}
	if err := store.SaveEntitlements(ids); err != nil {
		t.Fatalf("save entitlements: %v", err)
	}
	gotIDs, err := store.LoadEntitlements()
	if err != nil {
		t.Fatalf("load entitlements: %v", err)
	}
	if !reflect.DeepEqual(gotIDs, ids) {
		t.Fatalf("entitlements round trip mismatch: %v", gotIDs)
	}
}

func TestRedisStoreMissingKeysLoadEmpty(t *testing.T) {
	redis := miniredis.RunT(t)
	store, err := NewRedisStore(redis.Addr(), "")
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	overlay, err := store.LoadOverlay()
	if err != nil || len(overlay) != 0 {
		t.Fatalf("expected empty overlay, got %v (err %v)", overlay, err)
	}
	ids, err := store.LoadEntitlements()
	if err != nil || len(ids) != 0 {
		t.Fatalf("expected empty entitlements, got %v (err %v)", ids, err)
	}
}

func TestRedisStoreCorruptValueLoadsEmpty(t *testing.T) {
	redis := miniredis.RunT(t)
	if err := redis.Set(redisOverlayKey, "{broken"); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}
	store, err := NewRedisStore(redis.Addr(), "")
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	overlay, err := store.LoadOverlay()
	if err != nil || len(overlay) != 0 {
		t.Fatalf("corrupt overlay must load empty, got %v (err %v)", overlay, err)
	}
}

func TestRedisStoreRequiresAddr(t *testing.T) {
	if _, err := NewRedisStore("", ""); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

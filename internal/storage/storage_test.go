package storage

import (
	"testing"
	"time"

	"github.com/lehigh-university-libraries/restorer/internal/session"
)

func TestSessionStore(t *testing.T) {
	store := New(time.Minute)
	sess := session.New(nil)

	if _, ok := store.Get(sess.ID); ok {
		t.Fatal("Expected missing session")
	}

	store.Set(sess.ID, sess)
	got, ok := store.Get(sess.ID)
	if !ok || got != sess {
		t.Fatalf("Expected stored session, got %v %v", got, ok)
	}
	if store.Count() != 1 || len(store.GetAll()) != 1 {
		t.Errorf("Expected one session, got %d", store.Count())
	}

	store.Delete(sess.ID)
	if _, ok := store.Get(sess.ID); ok {
		t.Error("Expected session to be deleted")
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	store := New(20 * time.Millisecond)
	sess := session.New(nil)
	store.Set(sess.ID, sess)

	time.Sleep(50 * time.Millisecond)

	if _, ok := store.Get(sess.ID); ok {
		t.Error("Expected session to expire")
	}
}

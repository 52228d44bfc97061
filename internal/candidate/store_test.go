package candidate

import (
	"fmt"
	"math"
	"sync"
	"testing"
)

func TestStoreDeduplicatesByEndpoint(t *testing.T) {
	store := NewStore()

	inputs := []Entry{
		New("CCTV1", "", "", "央视频道", "u1"),
		New("CCTV1", "", "", "央视频道", "u1"),
		New("CCTV2", "", "", "央视频道", "u2"),
	}

	added := 0
	for _, e := range inputs {
		if store.Insert(e) {
			added++
		}
	}

	if added != 2 {
		t.Errorf("Insert reported %d additions, want 2", added)
	}
	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}

	all := store.All()
	if all[0].Endpoint != "u1" || all[1].Endpoint != "u2" {
		t.Errorf("All() order = [%s %s], want [u1 u2]", all[0].Endpoint, all[1].Endpoint)
	}
}

func TestStoreFirstSeenWins(t *testing.T) {
	store := NewStore()
	store.Insert(New("First", "", "", "g1", "http://a/stream"))
	store.Insert(New("Second", "", "", "g2", "http://a/stream"))

	got, ok := store.Lookup("http://a/stream")
	if !ok {
		t.Fatal("Lookup() did not find the endpoint")
	}
	if got.Name != "First" {
		t.Errorf("Lookup().Name = %q, want %q", got.Name, "First")
	}
}

func TestStoreAssignsSequence(t *testing.T) {
	store := NewStore()
	for i := 0; i < 5; i++ {
		store.Insert(New("ch", "", "", "", fmt.Sprintf("http://h/%d", i)))
	}
	for i, e := range store.All() {
		if e.Seq != i {
			t.Errorf("entry %d has Seq %d", i, e.Seq)
		}
	}
}

func TestStoreIgnoresEmptyEndpoint(t *testing.T) {
	store := NewStore()

	tests := []string{"", "   ", "\t"}
	for _, endpoint := range tests {
		if store.Insert(New("x", "", "", "", endpoint)) {
			t.Errorf("Insert(%q) = true, want false", endpoint)
		}
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestStoreTrimsEndpoint(t *testing.T) {
	store := NewStore()
	store.Insert(New("a", "", "", "", " http://x/1 "))
	if store.Insert(New("b", "", "", "", "http://x/1")) {
		t.Error("endpoint differing only by whitespace was inserted twice")
	}
}

func TestStoreAllReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Insert(New("a", "", "", "", "http://x/1"))

	all := store.All()
	all[0].Name = "mutated"

	if got, _ := store.Lookup("http://x/1"); got.Name != "a" {
		t.Errorf("store entry was mutated through All(): %q", got.Name)
	}
}

func TestStoreConcurrentInsert(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				store.Insert(New("ch", "", "", "", fmt.Sprintf("http://h/%d", i)))
			}
		}()
	}
	wg.Wait()

	if store.Len() != 100 {
		t.Errorf("Len() = %d, want 100", store.Len())
	}
}

func TestNewDefaults(t *testing.T) {
	e := New("CCTV1", "", "logo.png", "央视频道", "http://x")
	if e.ID != "CCTV1" {
		t.Errorf("ID = %q, want fallback to name", e.ID)
	}
	if !math.IsInf(e.Latency, 1) {
		t.Errorf("Latency = %v, want +Inf", e.Latency)
	}
	if e.Available != Unknown {
		t.Errorf("Available = %v, want unknown", e.Available)
	}
}

func TestValidated(t *testing.T) {
	tests := []struct {
		name      string
		available Availability
		latency   float64
		want      bool
	}{
		{"available with latency", Available, 0.25, true},
		{"available zero latency", Available, 0, true},
		{"available unmeasured", Available, Unmeasured, false},
		{"unavailable", Unavailable, 0.1, false},
		{"unknown", Unknown, 0.1, false},
		{"nan latency", Available, math.NaN(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Entry{Available: tt.available, Latency: tt.latency}
			if got := e.Validated(); got != tt.want {
				t.Errorf("Validated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAvailabilityString(t *testing.T) {
	tests := []struct {
		a    Availability
		want string
	}{
		{Unknown, "unknown"},
		{Available, "available"},
		{Unavailable, "unavailable"},
		{Availability(9), "availability(9)"},
	}
	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

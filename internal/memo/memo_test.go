package memo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoSharesInFlightComputation(t *testing.T) {
	cache := New()
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})

	fetch := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	const waiters = 8
	results := make([]int, waiters)
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Do(ctx, cache, "answer", time.Minute, fetch)
			if err != nil {
				t.Errorf("Do: %v", err)
				return
			}
			results[i] = v
		}(i)
	}

	// Let every goroutine reach the cache before the fetch settles.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected a single underlying fetch, got %d", n)
	}
	for i, v := range results {
		if v != 42 {
			t.Fatalf("waiter %d got %d, want 42", i, v)
		}
	}
}

func TestDoRespectsTTL(t *testing.T) {
	cache := New()
	now := time.Now()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	var calls int
	fetch := func(context.Context) (string, error) {
		calls++
		return fmt.Sprintf("result-%d", calls), nil
	}

	first, err := Do(ctx, cache, "k", 2*time.Second, fetch)
	if err != nil {
		t.Fatalf("first Do: %v", err)
	}
	second, err := Do(ctx, cache, "k", 2*time.Second, fetch)
	if err != nil {
		t.Fatalf("second Do: %v", err)
	}
	if calls != 1 || first != second {
		t.Fatalf("expected cached result within TTL, calls=%d first=%s second=%s", calls, first, second)
	}

	now = now.Add(3 * time.Second)
	third, err := Do(ctx, cache, "k", 2*time.Second, fetch)
	if err != nil {
		t.Fatalf("third Do: %v", err)
	}
	if calls != 2 || third == first {
		t.Fatalf("expected fresh fetch after expiry, calls=%d third=%s", calls, third)
	}
}

func TestDoWithoutTTLNeverExpires(t *testing.T) {
	cache := New()
	now := time.Now()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	var calls int
	fetch := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	if _, err := Do(ctx, cache, "immutable", 0, fetch); err != nil {
		t.Fatalf("Do: %v", err)
	}

	now = now.Add(24 * 365 * time.Hour)
	v, err := Do(ctx, cache, "immutable", 0, fetch)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 1 || v != 1 {
		t.Fatalf("expected the original result forever, calls=%d v=%d", calls, v)
	}
}

func TestDoDoesNotCacheFailures(t *testing.T) {
	cache := New()
	ctx := context.Background()

	var calls int
	boom := errors.New("upstream down")
	fetch := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 7, nil
	}

	if _, err := Do(ctx, cache, "flaky", time.Minute, fetch); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	v, err := Do(ctx, cache, "flaky", time.Minute, fetch)
	if err != nil {
		t.Fatalf("retry should not replay the failure: %v", err)
	}
	if calls != 2 || v != 7 {
		t.Fatalf("expected a second fetch after the failure, calls=%d v=%d", calls, v)
	}
}

func TestDoSurvivesCallerCancellation(t *testing.T) {
	cache := New()

	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(context.Context) (int, error) {
		close(started)
		<-release
		return 9, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := Do(ctx, cache, "slow", time.Minute, fetch)
		errCh <- err
	}()

	<-started
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// The computation keeps going and populates the cache for later callers.
	close(release)
	v, err := Do(context.Background(), cache, "slow", time.Minute, func(context.Context) (int, error) {
		t.Fatal("fetch should not run again; the first result must be cached")
		return 0, nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if v != 9 {
		t.Fatalf("expected cached result 9, got %d", v)
	}
}

func TestKeyNormalizesArguments(t *testing.T) {
	var none []string
	a := Key("balances", none, 0, 0)
	b := Key("balances", []string(nil), 0, 0)
	if a != b {
		t.Fatalf("keys differ for equivalent arguments: %q vs %q", a, b)
	}

	if Key("balances", []string{"x"}, 0, 0) == a {
		t.Fatal("distinct arguments must produce distinct keys")
	}
}

func TestKeySeparatorInArgumentDoesNotCollide(t *testing.T) {
	if Key("op", "a|b") == Key("op", "a", "b") {
		t.Fatal("an argument containing the separator must not collide with a wider tuple")
	}
}

package reactive

import "testing"

func TestMemoLazyAndCached(t *testing.T) {
	count := NewSignal(2)
	computes := 0
	doubled := NewMemo(func() int {
		computes++
		return count.Get() * 2
	})

	if computes != 0 {
		t.Fatal("memo must not compute before first read")
	}
	if doubled.Get() != 4 {
		t.Errorf("doubled = %d, want 4", doubled.Get())
	}
	_ = doubled.Get()
	_ = doubled.Get()
	if computes != 1 {
		t.Errorf("computes = %d, want 1 (cached between reads)", computes)
	}
}

func TestMemoRecomputesOnlyOnVersionChange(t *testing.T) {
	count := NewSignal(3)
	computes := 0
	m := NewMemo(func() int {
		computes++
		return count.Get() + 1
	})

	_ = m.Get()
	count.Set(3) // equal write: version unchanged, no invalidation
	_ = m.Get()
	if computes != 1 {
		t.Errorf("computes = %d, want 1 after a redundant write", computes)
	}

	count.Set(4)
	if got := m.Get(); got != 5 {
		t.Errorf("m = %d, want 5", got)
	}
	if computes != 2 {
		t.Errorf("computes = %d, want 2 after a real change", computes)
	}
}

func TestMemoCoalescesMultipleDependencyWrites(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(10)
	computes := 0
	sum := NewMemo(func() int {
		computes++
		return a.Get() + b.Get()
	})

	_ = sum.Get()
	a.Set(2)
	b.Set(20)
	// Lazy: both writes invalidate once; one read, one recompute.
	if got := sum.Get(); got != 22 {
		t.Errorf("sum = %d, want 22", got)
	}
	if computes != 2 {
		t.Errorf("computes = %d, want 2", computes)
	}
}

func TestMemoWithEqualsCutsPropagation(t *testing.T) {
	words := NewSignal([]string{"a", "b"})
	computes := 0
	length := NewMemo(func() int {
		computes++
		return len(words.Get())
	}).WithEquals(func(a, b int) bool { return a == b })

	listener := newTestListener()
	WithListener(listener, func() { _ = length.Get() })

	// Same length: the dependency changed but the derived value did not.
	words.Set([]string{"c", "d"})
	if listener.dirtyCount() != 0 {
		t.Errorf("notifications = %d, want 0 for an unchanged derived value", listener.dirtyCount())
	}
	if computes != 2 {
		t.Errorf("computes = %d, want 2 (custom equality recomputes eagerly)", computes)
	}

	words.Set([]string{"e"})
	if listener.dirtyCount() != 1 {
		t.Errorf("notifications = %d, want 1 after a real change", listener.dirtyCount())
	}
	if got := length.Get(); got != 1 {
		t.Errorf("length = %d, want 1", got)
	}
}

func TestMemoChains(t *testing.T) {
	count := NewSignal(1)
	doubled := NewMemo(func() int { return count.Get() * 2 })
	quadrupled := NewMemo(func() int { return doubled.Get() * 2 })

	if quadrupled.Get() != 4 {
		t.Errorf("quadrupled = %d, want 4", quadrupled.Get())
	}
	count.Set(5)
	if quadrupled.Get() != 20 {
		t.Errorf("quadrupled = %d, want 20 after upstream change", quadrupled.Get())
	}
}

func TestMemoSubscribesDownstreamListener(t *testing.T) {
	count := NewSignal(1)
	m := NewMemo(func() int { return count.Get() })
	listener := newTestListener()

	WithListener(listener, func() { _ = m.Get() })

	count.Set(2)
	if listener.dirtyCount() != 1 {
		t.Errorf("downstream listener notifications = %d, want 1", listener.dirtyCount())
	}
}

func TestMemoDynamicDependencies(t *testing.T) {
	useFirst := NewSignal(true)
	first := NewSignal("a")
	second := NewSignal("b")
	computes := 0
	pick := NewMemo(func() string {
		computes++
		if useFirst.Get() {
			return first.Get()
		}
		return second.Get()
	})

	if pick.Get() != "a" {
		t.Fatalf("pick = %q, want a", pick.Get())
	}

	// second is not a dependency yet; writing it must not invalidate.
	second.Set("bb")
	_ = pick.Get()
	if computes != 1 {
		t.Errorf("computes = %d, want 1 (untracked branch write)", computes)
	}

	useFirst.Set(false)
	if pick.Get() != "bb" {
		t.Errorf("pick = %q, want bb", pick.Get())
	}

	// After re-tracking, first is no longer a dependency.
	computes = 0
	first.Set("aa")
	_ = pick.Get()
	if computes != 0 {
		t.Errorf("computes = %d, want 0 (stale branch write)", computes)
	}
}

func TestUseDerivedStableAcrossRenders(t *testing.T) {
	owner := NewOwner(nil)
	listener := newTestListener()

	var m1, m2 *Memo[int]
	count := NewSignal(1)

	if err := renderPass(owner, listener, func() {
		m1 = UseDerived(func() int { return count.Get() * 2 })
	}); err != nil {
		t.Fatalf("render 1: %v", err)
	}
	if m1.Get() != 2 {
		t.Errorf("m1 = %d, want 2", m1.Get())
	}

	if err := renderPass(owner, listener, func() {
		m2 = UseDerived(func() int { return count.Get() * 2 })
	}); err != nil {
		t.Fatalf("render 2: %v", err)
	}

	if m1 != m2 {
		t.Error("UseDerived must return the same memo on every render")
	}
}

func TestUseMemoSubscribesInstance(t *testing.T) {
	owner := NewOwner(nil)
	listener := newTestListener()
	count := NewSignal(1)

	if err := renderPass(owner, listener, func() {
		if got := UseMemo(func() int { return count.Get() * 3 }); got != 3 {
			t.Errorf("UseMemo = %d, want 3", got)
		}
	}); err != nil {
		t.Fatalf("render: %v", err)
	}

	count.Set(2)
	if listener.dirtyCount() != 1 {
		t.Errorf("instance notifications = %d, want 1", listener.dirtyCount())
	}
}

package primeladder

import "testing"

func TestLadderStrictlyIncreasing(t *testing.T) {
	for i := 1; i < Len(); i++ {
		if BuildPrime(i) <= BuildPrime(i-1) {
			t.Fatalf("ladder not increasing at %d: %d <= %d", i, BuildPrime(i), BuildPrime(i-1))
		}
	}
}

func TestLadderOdd(t *testing.T) {
	for i := 0; i < Len(); i++ {
		if BuildPrime(i)%2 == 0 {
			t.Fatalf("ladder entry %d (%d) is even", i, BuildPrime(i))
		}
	}
}

func TestNextExhaustion(t *testing.T) {
	last := Len() - 1
	if _, ok := Next(last); ok {
		t.Fatalf("expected exhaustion at last index %d", last)
	}
	if n, ok := Next(0); !ok || n != 1 {
		t.Fatalf("expected Next(0) == (1, true), got (%d, %v)", n, ok)
	}
}

func TestFirstAtLeast(t *testing.T) {
	idx, ok := FirstAtLeast(1000)
	if !ok {
		t.Fatalf("expected to find an entry >= 1000")
	}
	if BuildPrime(idx) < 1000 {
		t.Fatalf("FirstAtLeast returned entry smaller than requested: %d", BuildPrime(idx))
	}
	if idx > 0 && BuildPrime(idx-1) >= 1000 {
		t.Fatalf("FirstAtLeast did not return the smallest qualifying index")
	}

	_, ok = FirstAtLeast(^uint64(0))
	if ok {
		t.Fatalf("expected no entry to satisfy an impossibly large minimum")
	}
}

package resource

import "testing"

func TestNewChecked_EqualToInvalid(t *testing.T) {
	log := &deleteLog{}

	g, err := NewCheckedGuard(5, 5, log.intDeleter())
	if err != nil {
		t.Fatalf("NewCheckedGuard failed: %v", err)
	}
	if g.Allocated() {
		t.Fatal("Resource equal to the invalid value should be unallocated")
	}
	g.Close()
	if log.count() != 0 {
		t.Fatalf("Deleter must not run, got %v", log.ids)
	}

	// The deleter is kept for later resets.
	if err := g.ResetTo(9); err != nil {
		t.Fatalf("ResetTo failed: %v", err)
	}
	g.Close()
	if log.count() != 1 || log.ids[0] != 9 {
		t.Fatalf("Expected stored deleter on 9, got %v", log.ids)
	}
}

func TestNewChecked_Valid(t *testing.T) {
	log := &deleteLog{}

	g, err := NewCheckedGuard(7, 5, log.intDeleter())
	if err != nil {
		t.Fatalf("NewCheckedGuard failed: %v", err)
	}
	if !g.Allocated() {
		t.Fatal("Resource different from the invalid value should be allocated")
	}
	g.Close()
	if log.count() != 1 || log.ids[0] != 7 {
		t.Fatalf("Expected one delete of 7, got %v", log.ids)
	}
}

func TestNewChecked_WithTraits(t *testing.T) {
	log := &deleteLog{}

	// 0 is a valid descriptor for intTraits, but the caller says it is invalid here.
	g, err := NewChecked[intTraits](0, 0, log.intDeleter())
	if err != nil {
		t.Fatalf("NewChecked failed: %v", err)
	}
	if g.Allocated() || g.Get() != -1 {
		t.Fatal("Invalid value should be replaced by the traits default")
	}
}

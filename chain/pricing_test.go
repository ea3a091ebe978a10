package chain

import "testing"

func TestPricingCostKnownModel(t *testing.T) {
	pt := DefaultPricing()
	pt.Set("test-model", ModelPricing{InputUSDPerMTok: 1.0, OutputUSDPerMTok: 2.0})

	cost, err := pt.Cost("test-model", 1_000_000, 500_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 1.0 + 1.0 // 1M in @ $1/M + 0.5M out @ $2/M
	if cost != want {
		t.Fatalf("expected cost %v, got %v", want, cost)
	}
}

func TestPricingCostUnknownModel(t *testing.T) {
	pt := DefaultPricing()
	_, err := pt.Cost("does-not-exist", 100, 100)
	if err == nil {
		t.Fatal("expected error for unknown model")
	}
	var chainErr *Error
	if !errorsAs(err, &chainErr) {
		t.Fatalf("expected *chain.Error, got %T", err)
	}
	if chainErr.Kind != KindConfiguration {
		t.Fatalf("expected configuration error kind, got %s", chainErr.Kind)
	}
}

func TestPricingLookupMissing(t *testing.T) {
	pt := DefaultPricing()
	if _, ok := pt.Lookup("nonexistent-model"); ok {
		t.Fatal("expected lookup miss for nonexistent model")
	}
}

// errorsAs is a tiny local wrapper so this file doesn't need to import
// errors directly just for one assertion helper.
func errorsAs(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}

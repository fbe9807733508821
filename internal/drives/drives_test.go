package drives

import "testing"

func TestCapacity(t *testing.T) {
	usage, err := Capacity(".")
	if err != nil {
		t.Fatalf("Capacity failed: %v", err)
	}

	if usage.Total == 0 {
		t.Error("total capacity should not be 0")
	}

	if usage.Used > usage.Total {
		t.Error("used space should not exceed total space")
	}

	if usage.Free > usage.Total {
		t.Error("free space should not exceed total space")
	}

	if usage.Used+usage.Free > usage.Total {
		t.Error("used + free should not exceed total")
	}

	if pct := usage.UsedPercent(); pct < 0 || pct > 100 {
		t.Errorf("used percent out of range: %f", pct)
	}

	if pct := usage.FreePercent(); pct < 0 || pct > 100 {
		t.Errorf("free percent out of range: %f", pct)
	}
}

func TestUsagePercentZeroTotal(t *testing.T) {
	var usage Usage

	if usage.UsedPercent() != 0 || usage.FreePercent() != 0 {
		t.Error("percentages of a zero-capacity volume should be 0")
	}
}

func TestList(t *testing.T) {
	vols, err := List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	for _, v := range vols {
		if v.Root == "" {
			t.Errorf("volume %q has empty root", v.ID)
		}

		if v.Total == 0 {
			t.Errorf("volume %q has zero capacity", v.ID)
		}
	}
}

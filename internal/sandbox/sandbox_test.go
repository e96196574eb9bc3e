package sandbox

import "testing"

func TestApplyWithoutChrootDoesNotRequireRoot(t *testing.T) {
	if err := Apply(false, "", Limits{CPUSeconds: 10, MemoryBytes: 1 << 20, FileSizeBytes: 1 << 20}); err != nil {
		t.Fatalf("Apply without chroot should never fail: %v", err)
	}
}

func TestApplySwallowsRlimitFailures(t *testing.T) {
	// A zero limit is a valid (if draconian) value; setrlimit should not
	// be allowed to fail the call even if the host refuses it.
	if err := Apply(false, "", Limits{}); err != nil {
		t.Fatalf("Apply should swallow rlimit failures, got: %v", err)
	}
}

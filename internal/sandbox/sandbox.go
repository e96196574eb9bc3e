// Package sandbox applies the OS-level isolation primitives spec.md §4.3
// describes: rlimit caps on CPU time, address space, and file size, plus an
// optional privileged jail (chroot + privilege drop to nobody/nogroup) on
// Unix. On non-Unix hosts Apply is a no-op: none of the CPU, memory or
// file-size caps is applied, and chroot/privilege-drop are unavailable.
//
// Grounded on original_source/src/utils/os/os_sandbox.rs — the teacher has
// no rlimit/chroot code of its own, so this package is built directly from
// the Rust original and expressed with golang.org/x/sys/unix, split along
// the same //go:build lines as internal/process's sys_nix.go/sys_windows.go.
package sandbox

// Limits mirrors the resource caps carried in ZephirConfig.Function.Resources.
type Limits struct {
	CPUSeconds    uint64
	MemoryBytes   uint64
	FileSizeBytes uint64
}

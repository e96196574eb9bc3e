//go:build !windows
// +build !windows

package sandbox

import (
	"os"

	"golang.org/x/sys/unix"
)

// nobodyUID and nogroupGID are the conventional "nobody"/"nogroup" IDs the
// original targets when dropping privileges.
const (
	nobodyUID  = 65534
	nogroupGID = 65534
)

// HasRootPrivilege reports whether the current process is running as root.
func HasRootPrivilege() bool {
	return unix.Getuid() == 0
}

// Apply installs the resource limits described by lim, and, when isRoot is
// true and chrootDir is non-empty, jails the process into chrootDir before
// dropping privileges to nobody/nogroup.
//
// rlimit failures are swallowed (matching the original's `let _ =`): a
// sandbox best-effort-capping a limit the host doesn't allow is not a fatal
// condition. A chroot failure is fatal and returned to the caller; the
// subsequent privilege-drop failures are again swallowed, since an enforcer
// that can jail a process but can't drop its privileges is still safer than
// one that refuses to run at all.
func Apply(isRoot bool, chrootDir string, lim Limits) error {
	setRlimit(unix.RLIMIT_CPU, lim.CPUSeconds)
	setRlimit(unix.RLIMIT_AS, lim.MemoryBytes)
	setRlimit(unix.RLIMIT_FSIZE, lim.FileSizeBytes)

	if isRoot && chrootDir != "" {
		if err := unix.Chroot(chrootDir); err != nil {
			return err
		}
		if err := os.Chdir("/"); err != nil {
			return err
		}

		_ = unix.Setgid(nogroupGID)
		_ = unix.Setuid(nobodyUID)
	}

	return nil
}

func setRlimit(resource int, value uint64) {
	rlimit := &unix.Rlimit{Cur: value, Max: value}
	_ = unix.Setrlimit(resource, rlimit)
}

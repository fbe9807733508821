//go:build linux

package drives

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// mountsPath is overridable in tests.
var mountsPath = "/proc/mounts"

// mountPoint is one parsed line of /proc/mounts.
type mountPoint struct {
	device string
	path   string
	fstype string
}

// List returns every fixed local volume, ordered by mount path. Mounts whose
// capacity cannot be probed are skipped rather than failing the enumeration.
func List() ([]Volume, error) {
	f, err := os.Open(mountsPath)
	if err != nil {
		return nil, fmt.Errorf("reading mount table: %w", err)
	}
	defer f.Close()

	var vols []Volume

	seen := make(map[string]struct{})

	for _, m := range parseMounts(f) {
		if !fixedDevice(m) {
			continue
		}

		// The same device can be mounted more than once (bind mounts,
		// btrfs subvolumes); keep the first mount only.
		if _, ok := seen[m.device]; ok {
			continue
		}

		seen[m.device] = struct{}{}

		usage, err := Capacity(m.path)
		if err != nil {
			continue
		}

		vols = append(vols, Volume{
			ID:    m.device,
			Root:  m.path,
			Total: usage.Total,
			Used:  usage.Used,
			Free:  usage.Free,
		})
	}

	return sortVolumes(vols), nil
}

// parseMounts reads a /proc/mounts style table.
func parseMounts(r io.Reader) []mountPoint {
	var mounts []mountPoint

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}

		mounts = append(mounts, mountPoint{
			device: fields[0],
			path:   unescapeMountPath(fields[1]),
			fstype: fields[2],
		})
	}

	return mounts
}

// fixedDevice reports whether a mount belongs to a fixed local block device.
func fixedDevice(m mountPoint) bool {
	name, ok := strings.CutPrefix(m.device, "/dev/")
	if !ok {
		return false
	}

	// loop/ram/sr/fd/zram back images, ramdisks and optical media.
	for _, prefix := range []string{"loop", "ram", "sr", "fd", "zram"} {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}

	switch m.fstype {
	case "squashfs", "iso9660", "udf":
		return false
	}

	return true
}

// unescapeMountPath decodes the octal escapes /proc/mounts uses for
// whitespace and backslashes in mount paths (e.g. "\040" for space).
func unescapeMountPath(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			b.WriteByte((s[i+1]-'0')<<6 | (s[i+2]-'0')<<3 | (s[i+3] - '0'))
			i += 3

			continue
		}

		b.WriteByte(s[i])
	}

	return b.String()
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}

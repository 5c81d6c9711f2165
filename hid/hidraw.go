package hid

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	ioctl "github.com/daedaluz/goioctl"
	"golang.org/x/sys/unix"

	"github.com/halvard-os/hidrd/hid/rdesc"
)

// hidMaxDescriptorSize mirrors Linux's HID_MAX_DESCRIPTOR_SIZE, the
// largest report descriptor the hidraw ioctls will hand back in one
// call.
const hidMaxDescriptorSize = 4096

type hidrawReportDescriptor struct {
	Size  uint32
	Value [hidMaxDescriptorSize]byte
}

type hidrawDevinfo struct {
	BusType uint32
	Vendor  int16
	Product int16
}

// hidiocGRDescSize, hidiocGRDesc, and hidiocGRawInfo are the fixed-size
// hidraw ioctls; goioctl computes the Linux _IOR encoding the same way
// usbfs/ioctl.go computes USBDEVFS_*.
var (
	hidiocGRDescSize = ioctl.IOR('H', 0x01, unsafe.Sizeof(int32(0)))
	hidiocGRDesc     = ioctl.IOR('H', 0x02, unsafe.Sizeof(hidrawReportDescriptor{}))
	hidiocGRawInfo   = ioctl.IOR('H', 0x03, unsafe.Sizeof(hidrawDevinfo{}))
)

// HidrawDevice is a HID transport backed by a Linux hidraw character
// device, an alternative to the usbfs control-transfer path Device
// uses for HID devices not claimed through usbfs (e.g. already bound
// to the kernel's hid-generic driver).
type HidrawDevice struct {
	f  *os.File
	fd int
}

// OpenHidraw opens a hidraw node such as "/dev/hidraw2".
func OpenHidraw(path string) (*HidrawDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &HidrawDevice{f: f, fd: int(f.Fd())}, nil
}

func (d *HidrawDevice) Close() error { return d.f.Close() }

func (d *HidrawDevice) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// DeviceInfo issues HIDIOCGRAWINFO.
func (d *HidrawDevice) DeviceInfo() (busType uint32, vendor, product int16, err error) {
	var info hidrawDevinfo
	if err := d.ioctl(hidiocGRawInfo, unsafe.Pointer(&info)); err != nil {
		return 0, 0, 0, err
	}
	return info.BusType, info.Vendor, info.Product, nil
}

// ReportDescriptorBytes fetches the raw report descriptor via
// HIDIOCGRDESCSIZE followed by HIDIOCGRDESC.
func (d *HidrawDevice) ReportDescriptorBytes() ([]byte, error) {
	var size int32
	if err := d.ioctl(hidiocGRDescSize, unsafe.Pointer(&size)); err != nil {
		return nil, fmt.Errorf("hidraw: HIDIOCGRDESCSIZE: %w", err)
	}
	if size < 0 || size > hidMaxDescriptorSize {
		return nil, fmt.Errorf("hidraw: implausible descriptor size %d", size)
	}
	desc := hidrawReportDescriptor{Size: uint32(size)}
	if err := d.ioctl(hidiocGRDesc, unsafe.Pointer(&desc)); err != nil {
		return nil, fmt.Errorf("hidraw: HIDIOCGRDESC: %w", err)
	}
	return append([]byte(nil), desc.Value[:size]...), nil
}

// ReportDescriptor fetches and parses the device's report descriptor.
func (d *HidrawDevice) ReportDescriptor() (*rdesc.PreparsedData, error) {
	raw, err := d.ReportDescriptorBytes()
	if err != nil {
		return nil, err
	}
	return rdesc.Parse(raw, nil, nil)
}

// GetFeatureReport issues HIDIOCGFEATURE. buf[0] is set to reportID
// before the call; the kernel overwrites buf in place with the
// returned report.
func (d *HidrawDevice) GetFeatureReport(reportID byte, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, fmt.Errorf("hidraw: GetFeatureReport needs a non-empty buffer")
	}
	buf[0] = reportID
	req := ioctl.IOWR('H', 0x07, uintptr(len(buf)))
	if err := d.ioctl(req, unsafe.Pointer(&buf[0])); err != nil {
		return 0, fmt.Errorf("hidraw: HIDIOCGFEATURE: %w", err)
	}
	return len(buf), nil
}

// SetFeatureReport issues HIDIOCSFEATURE. buf[0] must already hold the
// target report ID.
func (d *HidrawDevice) SetFeatureReport(buf []byte) error {
	if len(buf) == 0 {
		return fmt.Errorf("hidraw: SetFeatureReport needs a non-empty buffer")
	}
	req := ioctl.IOWR('H', 0x06, uintptr(len(buf)))
	if err := d.ioctl(req, unsafe.Pointer(&buf[0])); err != nil {
		return fmt.Errorf("hidraw: HIDIOCSFEATURE: %w", err)
	}
	return nil
}

// EnumerateHidraw walks /sys/class/hidraw and returns the /dev node
// path for every hidraw character device present.
func EnumerateHidraw() ([]string, error) {
	const sysHidraw = "/sys/class/hidraw"
	entries, err := os.ReadDir(sysHidraw)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "hidraw") {
			continue
		}
		paths = append(paths, filepath.Join("/dev", name))
	}
	return paths, nil
}

// Package portwatch reports serial device hotplug activity.
//
// It listens on the kernel's udev netlink socket for tty subsystem events
// so the CLI can tell the user when a timer is plugged in or yanked
// without polling the device list.
package portwatch

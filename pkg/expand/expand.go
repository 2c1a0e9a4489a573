// Package expand turns target specifications into concrete IPv4
// address lists.
//
// Three spec forms are accepted:
//   - CIDR notation, e.g. 192.168.1.0/24 (host addresses only)
//   - inclusive range notation, e.g. 192.168.1.10-192.168.1.50
//   - a single address, e.g. 8.8.8.8
package expand

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/projectdiscovery/mapcidr"
	iputil "github.com/projectdiscovery/utils/ip"
)

// Expand turns a single target spec into an ordered list of IPv4
// addresses, ascending. CIDR blocks exclude their network and
// broadcast addresses; /31 and /32 have neither and return every
// address.
func Expand(spec string) ([]string, error) {
	switch {
	case strings.Contains(spec, "/"):
		return expandCIDR(spec)
	case strings.Contains(spec, "-"):
		return expandRange(spec)
	default:
		if !iputil.IsIPv4(spec) {
			return nil, fmt.Errorf("invalid address %q", spec)
		}
		return []string{spec}, nil
	}
}

// Targets expands every spec in declaration order, collecting per-spec
// errors instead of aborting: one malformed spec never discards the
// rest. Duplicate addresses are preserved.
func Targets(specs []string) ([]string, []error) {
	var addresses []string
	var errs []error
	for _, spec := range specs {
		expanded, err := Expand(strings.TrimSpace(spec))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		addresses = append(addresses, expanded...)
	}
	return addresses, errs
}

func expandCIDR(spec string) ([]string, error) {
	_, network, err := net.ParseCIDR(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR %q: %w", spec, err)
	}
	ips, err := mapcidr.IPAddresses(network.String())
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR %q: %w", spec, err)
	}

	// /31 and /32 have no distinct network/broadcast addresses.
	if ones, bits := network.Mask.Size(); bits-ones <= 1 {
		return ips, nil
	}

	hosts := make([]string, 0, len(ips))
	for _, ipStr := range ips {
		ip := net.ParseIP(ipStr)
		if ip == nil || isNetworkOrBroadcast(ip, network) {
			continue
		}
		hosts = append(hosts, ipStr)
	}
	return hosts, nil
}

func expandRange(spec string) ([]string, error) {
	startStr, endStr, _ := strings.Cut(spec, "-")
	start, err := parseIPv4(strings.TrimSpace(startStr))
	if err != nil {
		return nil, fmt.Errorf("invalid range %q: %w", spec, err)
	}
	end, err := parseIPv4(strings.TrimSpace(endStr))
	if err != nil {
		return nil, fmt.Errorf("invalid range %q: %w", spec, err)
	}
	if start.Compare(end) > 0 {
		return nil, fmt.Errorf("invalid range %q: start address exceeds end address", spec)
	}

	var addresses []string
	for addr := start; addr.IsValid() && addr.Compare(end) <= 0; addr = addr.Next() {
		addresses = append(addresses, addr.String())
	}
	return addresses, nil
}

func parseIPv4(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%q is not an IPv4 address", s)
	}
	return addr, nil
}

// isNetworkOrBroadcast reports whether ip is the network or broadcast
// address of the given IPv4 network.
func isNetworkOrBroadcast(ip net.IP, network *net.IPNet) bool {
	if ip.Equal(network.IP) {
		return true
	}
	if ip4 := ip.To4(); ip4 != nil {
		broadcast := make(net.IP, len(network.IP))
		copy(broadcast, network.IP)
		for i := range broadcast {
			broadcast[i] |= ^network.Mask[i]
		}
		return ip.Equal(broadcast)
	}
	return false
}

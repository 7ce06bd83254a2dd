package transport

import (
	"fmt"
	"net"

	"github.com/lattice-dds/rtps/pkg/rtps"
)

// ReceiveFunc is invoked once per successfully decoded RTPS message a
// Transport reads off the wire; src is the locator the datagram arrived
// from.
type ReceiveFunc func(src rtps.Locator, msg rtps.Message)

// Transport is the datagram send/recv boundary the wire codec and
// participant orchestrator depend on (spec.md §1). Implementations own
// whatever sockets they need; callers never see a net.Conn.
type Transport interface {
	// Start begins reading datagrams and invoking recv for each decoded
	// message. Malformed datagrams are dropped per spec.md §4.1's failure
	// conditions and never reach recv.
	Start(recv ReceiveFunc) error
	// Stop closes all sockets and waits for the read loops to exit.
	Stop() error
	// Send serialises msg and writes it to locator.
	Send(locator rtps.Locator, msg rtps.Message) error
	// DefaultUnicastLocator and DefaultMulticastLocator are this
	// transport's own addresses, advertised in SPDP (spec.md §4.5).
	DefaultUnicastLocator() rtps.Locator
	DefaultMulticastLocator() rtps.Locator
}

// LocatorToUDPAddr converts an RTPS locator to a net.UDPAddr. Only
// LocatorKindUDPv4 is supported by this package's implementations.
func LocatorToUDPAddr(loc rtps.Locator) (*net.UDPAddr, error) {
	if loc.Kind != rtps.LocatorKindUDPv4 {
		return nil, fmt.Errorf("transport: unsupported locator kind %d", loc.Kind)
	}
	ip := net.IPv4(loc.Address[12], loc.Address[13], loc.Address[14], loc.Address[15])
	return &net.UDPAddr{IP: ip, Port: int(loc.Port)}, nil
}

// UDPAddrToLocator converts a resolved UDP address back to an RTPS
// locator.
func UDPAddrToLocator(addr *net.UDPAddr) rtps.Locator {
	var loc rtps.Locator
	loc.Kind = rtps.LocatorKindUDPv4
	loc.Port = uint32(addr.Port)
	ip4 := addr.IP.To4()
	if ip4 != nil {
		copy(loc.Address[12:], ip4)
	}
	return loc
}

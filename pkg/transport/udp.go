package transport

import (
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lattice-dds/rtps/pkg/log"
	"github.com/lattice-dds/rtps/pkg/metrics"
	"github.com/lattice-dds/rtps/pkg/rtps"
)

func submessageLabel(sub rtps.Submessage) string {
	return fmt.Sprintf("0x%02x", byte(sub.Kind()))
}

// UDPConfig configures a UDPTransport's sockets.
type UDPConfig struct {
	// UnicastAddr is the local address the unicast socket binds to, e.g.
	// "0.0.0.0:7410".
	UnicastAddr string
	// MulticastGroup is the multicast group SPDP announcements are sent
	// and received on, e.g. "239.255.0.1:7400". Empty disables multicast.
	MulticastGroup string
	// Interface selects which network interface joins the multicast
	// group; nil lets the OS pick.
	Interface *net.Interface
}

// UDPTransport is the default Transport: one unicast UDP socket plus an
// optional multicast socket for SPDP, each read by its own goroutine
// (cuemby-warren/pkg/worker/worker.go's Start/Stop + stopCh + WaitGroup
// shape, see doc.go).
type UDPTransport struct {
	logger zerolog.Logger

	unicastConn   *net.UDPConn
	multicastConn *net.UDPConn

	unicastLocator   rtps.Locator
	multicastLocator rtps.Locator

	wg     sync.WaitGroup
	stopCh chan struct{}
}

func NewUDPTransport(cfg UDPConfig) (*UDPTransport, error) {
	unicastAddr, err := net.ResolveUDPAddr("udp4", cfg.UnicastAddr)
	if err != nil {
		return nil, err
	}
	unicastConn, err := net.ListenUDP("udp4", unicastAddr)
	if err != nil {
		return nil, err
	}
	localAddr := unicastConn.LocalAddr().(*net.UDPAddr)

	t := &UDPTransport{
		logger:         log.WithComponent("transport"),
		unicastConn:    unicastConn,
		unicastLocator: UDPAddrToLocator(localAddr),
		stopCh:         make(chan struct{}),
	}

	if cfg.MulticastGroup != "" {
		groupAddr, err := net.ResolveUDPAddr("udp4", cfg.MulticastGroup)
		if err != nil {
			unicastConn.Close()
			return nil, err
		}
		multicastConn, err := net.ListenMulticastUDP("udp4", cfg.Interface, groupAddr)
		if err != nil {
			unicastConn.Close()
			return nil, err
		}
		t.multicastConn = multicastConn
		t.multicastLocator = UDPAddrToLocator(groupAddr)
	}

	return t, nil
}

// Start launches one read-loop goroutine per open socket.
func (t *UDPTransport) Start(recv ReceiveFunc) error {
	t.wg.Add(1)
	go t.readLoop(t.unicastConn, recv)

	if t.multicastConn != nil {
		t.wg.Add(1)
		go t.readLoop(t.multicastConn, recv)
	}

	t.logger.Info().
		Str("unicast", t.unicastLocator.String()).
		Msg("transport started")
	return nil
}

// Stop closes both sockets and waits for the read loops to exit.
func (t *UDPTransport) Stop() error {
	close(t.stopCh)
	t.unicastConn.Close()
	if t.multicastConn != nil {
		t.multicastConn.Close()
	}
	t.wg.Wait()
	return nil
}

func (t *UDPTransport) readLoop(conn *net.UDPConn, recv ReceiveFunc) {
	defer t.wg.Done()
	buf := make([]byte, 64*1024)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-t.stopCh:
				return
			default:
				t.logger.Warn().Err(err).Msg("read error")
				continue
			}
		}
		metrics.BytesReceivedTotal.Add(float64(n))

		msg, err := rtps.Decode(buf[:n])
		if err != nil {
			// spec.md §4.1: malformed datagrams are dropped, never fatal.
			metrics.MessagesDecodedTotal.WithLabelValues("dropped").Inc()
			t.logger.Debug().Err(err).Str("src", src.String()).Msg("dropped malformed datagram")
			continue
		}
		metrics.MessagesDecodedTotal.WithLabelValues("ok").Inc()
		for _, sub := range msg.Submessages {
			metrics.SubmessagesDecodedTotal.WithLabelValues(submessageLabel(sub)).Inc()
		}

		recv(UDPAddrToLocator(src), msg)
	}
}

// Send serialises msg and writes it to locator.
func (t *UDPTransport) Send(locator rtps.Locator, msg rtps.Message) error {
	addr, err := LocatorToUDPAddr(locator)
	if err != nil {
		return err
	}
	buf := msg.Encode()
	n, err := t.unicastConn.WriteToUDP(buf, addr)
	if err != nil {
		return err
	}
	metrics.BytesSentTotal.Add(float64(n))
	return nil
}

func (t *UDPTransport) DefaultUnicastLocator() rtps.Locator   { return t.unicastLocator }
func (t *UDPTransport) DefaultMulticastLocator() rtps.Locator { return t.multicastLocator }

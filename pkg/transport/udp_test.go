package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lattice-dds/rtps/pkg/rtps"
)

func TestUDPTransportSendReceiveRoundTrip(t *testing.T) {
	a, err := NewUDPTransport(UDPConfig{UnicastAddr: "127.0.0.1:0"})
	require.NoError(t, err)
	defer a.Stop()

	b, err := NewUDPTransport(UDPConfig{UnicastAddr: "127.0.0.1:0"})
	require.NoError(t, err)
	defer b.Stop()

	received := make(chan rtps.Message, 1)
	require.NoError(t, a.Start(func(_ rtps.Locator, msg rtps.Message) { received <- msg }))
	require.NoError(t, b.Start(func(rtps.Locator, rtps.Message) {}))

	msg := rtps.Message{Header: rtps.MessageHeader{
		ProtocolVersion: rtps.ProtocolVersion2_4,
		VendorId:        rtps.VendorIdThisImplementation,
		GuidPrefix:      rtps.GuidPrefix{1},
	}}

	require.NoError(t, b.Send(a.DefaultUnicastLocator(), msg))

	select {
	case got := <-received:
		require.Equal(t, msg.Header.GuidPrefix, got.Header.GuidPrefix)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestLocatorToUDPAddrRejectsNonUDPv4(t *testing.T) {
	_, err := LocatorToUDPAddr(rtps.Locator{Kind: rtps.LocatorKindUDPv6})
	require.Error(t, err)
}

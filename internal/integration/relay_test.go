package integration

import (
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// lossyRelay forwards UDP datagrams between one client and an agent,
// dropping the first drop datagrams the client sends.
type lossyRelay struct {
	front    net.PacketConn
	upstream *net.UDPConn

	mu      sync.Mutex
	client  net.Addr
	drop    int
	dropped int
	relayed int
}

// startLossyRelay listens on loopback and relays to the agent on agentPort.
func startLossyRelay(t *testing.T, agentPort uint16, drop int) *lossyRelay {
	t.Helper()

	front, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)

	upstream, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: int(agentPort)})
	require.NoError(t, err)

	r := &lossyRelay{
		front:    front,
		upstream: upstream,
		drop:     drop,
	}

	go r.forward()
	go r.backward()

	t.Cleanup(func() {
		_ = front.Close()
		_ = upstream.Close()
	})

	return r
}

// port returns the UDP port clients should talk to.
func (r *lossyRelay) port() uint16 {
	return uint16(r.front.LocalAddr().(*net.UDPAddr).Port) //nolint:gosec // Port numbers fit uint16.
}

// counts returns how many client datagrams were dropped and relayed.
func (r *lossyRelay) counts() (dropped, relayed int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.dropped, r.relayed
}

// forward moves client requests to the agent.
func (r *lossyRelay) forward() {
	buf := make([]byte, 65535)

	for {
		n, addr, err := r.front.ReadFrom(buf)
		if err != nil {
			return
		}

		r.mu.Lock()
		r.client = addr

		if r.dropped < r.drop {
			r.dropped++
			r.mu.Unlock()

			continue
		}

		r.relayed++
		r.mu.Unlock()

		if _, err = r.upstream.Write(buf[:n]); err != nil {
			return
		}
	}
}

// backward moves agent responses to the last seen client.
func (r *lossyRelay) backward() {
	buf := make([]byte, 65535)

	for {
		n, err := r.upstream.Read(buf)
		if err != nil {
			return
		}

		r.mu.Lock()
		client := r.client
		r.mu.Unlock()

		if client == nil {
			continue
		}

		_, _ = r.front.WriteTo(buf[:n], client)
	}
}

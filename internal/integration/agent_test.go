package integration

import (
	"io"
	"log"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/require"
)

// agent is a minimal SNMPv2c responder serving a static MIB over loopback UDP.
// It answers GET, GETNEXT and GETBULK, which is all the check issues.
type agent struct {
	conn      net.PacketConn
	community string
	// mib is sorted by OID.
	mib []gosnmp.SnmpPDU

	mu       sync.Mutex
	requests []gosnmp.PDUType
}

// startAgent serves mib on a random loopback port until the test ends.
func startAgent(t *testing.T, community string, mib []gosnmp.SnmpPDU) *agent {
	t.Helper()

	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)

	sorted := append([]gosnmp.SnmpPDU(nil), mib...)
	sort.Slice(sorted, func(i, j int) bool {
		return compareOIDs(sorted[i].Name, sorted[j].Name) < 0
	})

	a := &agent{
		conn:      conn,
		community: community,
		mib:       sorted,
	}

	go a.serve()

	t.Cleanup(func() {
		_ = conn.Close()
	})

	return a
}

// port returns the UDP port the agent listens on.
func (a *agent) port() uint16 {
	return uint16(a.conn.LocalAddr().(*net.UDPAddr).Port) //nolint:gosec // Port numbers fit uint16.
}

// seen returns the PDU types received so far.
func (a *agent) seen() []gosnmp.PDUType {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]gosnmp.PDUType(nil), a.requests...)
}

func (a *agent) serve() {
	codec := &gosnmp.GoSNMP{
		Version: gosnmp.Version2c,
		Logger:  gosnmp.NewLogger(log.New(io.Discard, "", 0)),
	}

	buf := make([]byte, 65535)

	for {
		n, addr, err := a.conn.ReadFrom(buf)
		if err != nil {
			return
		}

		request, err := codec.SnmpDecodePacket(buf[:n])
		if err != nil || request.Community != a.community {
			continue
		}

		a.mu.Lock()
		a.requests = append(a.requests, request.PDUType)
		a.mu.Unlock()

		response := &gosnmp.SnmpPacket{
			Version:   request.Version,
			Community: request.Community,
			PDUType:   gosnmp.GetResponse,
			RequestID: request.RequestID,
			Variables: a.answer(request),
			Logger:    codec.Logger,
		}

		out, err := response.MarshalMsg()
		if err != nil {
			continue
		}

		_, _ = a.conn.WriteTo(out, addr)
	}
}

// answer builds the response variables for one request.
func (a *agent) answer(request *gosnmp.SnmpPacket) []gosnmp.SnmpPDU {
	var variables []gosnmp.SnmpPDU

	switch request.PDUType {
	case gosnmp.GetRequest:
		for _, v := range request.Variables {
			variables = append(variables, a.get(v.Name))
		}
	case gosnmp.GetNextRequest:
		for _, v := range request.Variables {
			variables = append(variables, a.next(v.Name, 1)...)
		}
	case gosnmp.GetBulkRequest:
		repetitions := int(request.MaxRepetitions)
		if repetitions <= 0 {
			repetitions = 10
		}

		for _, v := range request.Variables {
			variables = append(variables, a.next(v.Name, repetitions)...)
		}
	}

	return variables
}

// get returns the exact object or a noSuchObject exception.
func (a *agent) get(name string) gosnmp.SnmpPDU {
	for _, pdu := range a.mib {
		if compareOIDs(pdu.Name, name) == 0 {
			return pdu
		}
	}

	return gosnmp.SnmpPDU{Name: dotted(name), Type: gosnmp.NoSuchObject}
}

// next returns up to count objects following name, ending with endOfMibView.
func (a *agent) next(name string, count int) []gosnmp.SnmpPDU {
	var out []gosnmp.SnmpPDU

	for _, pdu := range a.mib {
		if compareOIDs(pdu.Name, name) > 0 {
			out = append(out, pdu)
			if len(out) == count {
				return out
			}
		}
	}

	last := name
	if len(out) > 0 {
		last = out[len(out)-1].Name
	}

	return append(out, gosnmp.SnmpPDU{Name: dotted(last), Type: gosnmp.EndOfMibView})
}

// compareOIDs orders dotted OIDs arc by arc.
func compareOIDs(a, b string) int {
	left := strings.Split(strings.TrimPrefix(a, "."), ".")
	right := strings.Split(strings.TrimPrefix(b, "."), ".")

	for i := 0; i < len(left) && i < len(right); i++ {
		l, _ := strconv.Atoi(left[i])
		r, _ := strconv.Atoi(right[i])

		if l != r {
			if l < r {
				return -1
			}

			return 1
		}
	}

	return len(left) - len(right)
}

// dotted adds the leading dot used on the wire representation.
func dotted(oid string) string {
	return "." + strings.TrimPrefix(oid, ".")
}

package poller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/oshokin/check-xups-alarms/internal/logger"
	"github.com/oshokin/check-xups-alarms/internal/oids"
)

const (
	// DefaultPort is the standard SNMP agent port.
	DefaultPort = 161
	// DefaultTimeout bounds each SNMP request.
	DefaultTimeout = 5 * time.Second
	// DefaultVersion is the SNMP protocol version used when none is configured.
	DefaultVersion = "2c"
)

var (
	// errTargetRequired is returned when no device address is provided.
	errTargetRequired = errors.New("target address must be provided")
	// errCommunityRequired is returned when no community string is provided.
	errCommunityRequired = errors.New("community must be provided")
	// errUnsupportedVersion is returned for SNMP versions other than 1 and 2c.
	errUnsupportedVersion = errors.New("unsupported SNMP version")
	// errNoSuchObject is returned when the agent does not implement the requested object.
	errNoSuchObject = errors.New("no such object")
	// errNotNumeric is returned when a scalar read returns a non-numeric value.
	errNotNumeric = errors.New("value is not numeric")
	// errUnexpectedResponse is returned when the agent answers with the wrong number of variables.
	errUnexpectedResponse = errors.New("unexpected response")
)

// Client wraps a gosnmp session.
//
// Each request is bounded by callTimeout and retransmitted up to retries
// times by gosnmp. The caller's context only cancels a poll; it adds no
// deadline of its own, so a table walk may span several requests.
type Client struct {
	// snmp is the underlying session, created by Dial.
	snmp *gosnmp.GoSNMP

	// target is the device hostname or address.
	target string
	// port is the UDP port of the agent.
	port uint16
	// community is the SNMPv1/v2c community string.
	community string
	// version is the textual protocol version ("1" or "2c").
	version string
	// callTimeout bounds each attempt of a request.
	callTimeout time.Duration
	// retries is the number of transport-level retransmissions.
	retries int
}

// Option configures client behaviour.
type Option func(*Client)

// WithPort sets the agent port. Zero keeps the default.
func WithPort(port uint16) Option {
	return func(c *Client) {
		if port > 0 {
			c.port = port
		}
	}
}

// WithCommunity sets the community string.
func WithCommunity(community string) Option {
	return func(c *Client) {
		c.community = community
	}
}

// WithVersion sets the SNMP version ("1" or "2c"). Empty keeps the default.
func WithVersion(version string) Option {
	return func(c *Client) {
		if version != "" {
			c.version = version
		}
	}
}

// WithCallTimeout sets a timeout for each request.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithRetries sets transport-level retransmissions. Negative values are ignored.
func WithRetries(retries int) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.retries = retries
		}
	}
}

// ParseVersion maps the textual SNMP version to gosnmp's constant.
func ParseVersion(version string) (gosnmp.SnmpVersion, error) {
	switch strings.ToLower(strings.TrimSpace(version)) {
	case "1", "v1":
		return gosnmp.Version1, nil
	case "2c", "v2c", "2":
		return gosnmp.Version2c, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnsupportedVersion, version)
	}
}

// Dial prepares an SNMP session to target. SNMP runs over UDP, so no packet
// is exchanged until the first poll.
func Dial(ctx context.Context, target string, opts ...Option) (*Client, error) {
	if target == "" {
		return nil, errTargetRequired
	}

	client := &Client{
		target:      target,
		port:        DefaultPort,
		version:     DefaultVersion,
		callTimeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.community == "" {
		return nil, errCommunityRequired
	}

	version, err := ParseVersion(client.version)
	if err != nil {
		return nil, err
	}

	client.snmp = &gosnmp.GoSNMP{
		Target:             client.target,
		Port:               client.port,
		Transport:          "udp",
		Community:          client.community,
		Version:            version,
		Timeout:            client.callTimeout,
		Retries:            client.retries,
		ExponentialTimeout: false,
		Context:            ctx,
		Logger:             gosnmp.NewLogger(&debugLogger{ctx: ctx}),
	}

	if err = client.snmp.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect %s:%d: %w", ErrPoll, client.target, client.port, err)
	}

	logger.DebugKV(ctx, "SNMP session ready", "target", client.target, "port", client.port, "version", client.version)

	return client, nil
}

// Close releases the underlying UDP socket.
func (c *Client) Close() error {
	if c == nil || c.snmp == nil || c.snmp.Conn == nil {
		return nil
	}

	return c.snmp.Conn.Close()
}

// PollScalar reads a single numeric object such as a Gauge or INTEGER.
func (c *Client) PollScalar(ctx context.Context, oid string) (int, error) {
	pdus, err := c.get(ctx, oid)
	if err != nil {
		return 0, err
	}

	value, err := pduInt(pdus[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrPoll, oid, err)
	}

	return value, nil
}

// PollTable walks every object below prefix and returns the rows in device order.
// SNMPv2c uses GETBULK, SNMPv1 falls back to GETNEXT.
func (c *Client) PollTable(ctx context.Context, prefix string) ([]Row, error) {
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.snmp.Context = callCtx

	walk := c.snmp.BulkWalkAll
	if c.snmp.Version == gosnmp.Version1 {
		walk = c.snmp.WalkAll
	}

	pdus, err := walk(prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: walk %s: %w", ErrPoll, prefix, err)
	}

	rows := make([]Row, 0, len(pdus))

	for _, pdu := range pdus {
		if isMissing(pdu.Type) {
			continue
		}

		rows = append(rows, Row{
			SourceKey: oids.Normalize(pdu.Name),
			Value:     pduValue(pdu),
		})
	}

	logger.DebugKV(ctx, "SNMP walk finished", "prefix", prefix, "rows", len(rows))

	return rows, nil
}

// PollStrings reads several objects at once and renders their values as text.
func (c *Client) PollStrings(ctx context.Context, requested ...string) (map[string]string, error) {
	pdus, err := c.get(ctx, requested...)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(pdus))

	for _, pdu := range pdus {
		if isMissing(pdu.Type) {
			continue
		}

		values[oids.Normalize(pdu.Name)] = pduString(pdu)
	}

	return values, nil
}

// get performs one GET request and checks the response shape.
func (c *Client) get(ctx context.Context, requested ...string) ([]gosnmp.SnmpPDU, error) {
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.snmp.Context = callCtx

	packet, err := c.snmp.Get(requested)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrPoll, strings.Join(requested, ","), err)
	}

	if packet.Error != gosnmp.NoError {
		return nil, fmt.Errorf("%w: get %s: agent error %v", ErrPoll, strings.Join(requested, ","), packet.Error)
	}

	if len(packet.Variables) != len(requested) {
		return nil, fmt.Errorf("%w: get %s: %w: %d variables", ErrPoll,
			strings.Join(requested, ","), errUnexpectedResponse, len(packet.Variables))
	}

	if len(requested) == 1 && isMissing(packet.Variables[0].Type) {
		return nil, fmt.Errorf("%w: get %s: %w", ErrPoll, requested[0], errNoSuchObject)
	}

	return packet.Variables, nil
}

// isMissing reports whether the PDU type signals an absent object.
func isMissing(t gosnmp.Asn1BER) bool {
	switch t {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return true
	default:
		return false
	}
}

// isNumeric reports whether the PDU type carries an integer value.
func isNumeric(t gosnmp.Asn1BER) bool {
	switch t {
	case gosnmp.Integer, gosnmp.Gauge32, gosnmp.Counter32, gosnmp.Counter64,
		gosnmp.TimeTicks, gosnmp.Uinteger32:
		return true
	default:
		return false
	}
}

// pduInt converts a numeric PDU to int.
func pduInt(pdu gosnmp.SnmpPDU) (int, error) {
	if !isNumeric(pdu.Type) {
		return 0, fmt.Errorf("%w: %v", errNotNumeric, pdu.Type)
	}

	value := gosnmp.ToBigInt(pdu.Value)
	if !value.IsInt64() || value.Int64() > math.MaxInt32 || value.Int64() < math.MinInt32 {
		return 0, fmt.Errorf("%w: %s out of range", errNotNumeric, value)
	}

	return int(value.Int64()), nil
}

// pduValue decodes a PDU into the Row value representation.
func pduValue(pdu gosnmp.SnmpPDU) any {
	switch {
	case isNumeric(pdu.Type):
		return gosnmp.ToBigInt(pdu.Value).Int64()
	case pdu.Type == gosnmp.ObjectIdentifier:
		if s, ok := pdu.Value.(string); ok {
			return oids.Normalize(s)
		}
	case pdu.Type == gosnmp.OctetString:
		if b, ok := pdu.Value.([]byte); ok {
			return string(b)
		}
	}

	return pdu.Value
}

// pduString renders a PDU value as text.
func pduString(pdu gosnmp.SnmpPDU) string {
	switch value := pduValue(pdu).(type) {
	case string:
		return strings.TrimSpace(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return fmt.Sprint(value)
	}
}

// debugLogger forwards gosnmp's packet tracing to the debug level of the context logger.
type debugLogger struct {
	ctx context.Context //nolint:containedctx // gosnmp's logger interface has no context parameter.
}

// Print implements gosnmp.LoggerInterface.
func (l *debugLogger) Print(v ...any) {
	logger.Debug(l.ctx, v...)
}

// Printf implements gosnmp.LoggerInterface.
func (l *debugLogger) Printf(format string, v ...any) {
	logger.Debugf(l.ctx, format, v...)
}

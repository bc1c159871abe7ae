// Package ingest implements the UDP multicast market-data ingestor: it
// joins a multicast group, applies template-id heartbeat filtering,
// truncates oversize datagrams to the ring's payload capacity, and
// forwards everything else to a ring.Writer.
//
// Grounded on the multicast receive loop in DimaJoyti's market data
// engine (net.ListenMulticastUDP, an already-elapsed read deadline
// standing in for a non-blocking poll, net.Error.Timeout as the
// would-block signal) generalized onto golang.org/x/net/ipv4 so
// SO_REUSEADDR and SO_REUSEPORT can be set before bind, letting
// multiple consumer processes join the same group.
package ingest

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"syscall"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"

	"github.com/fluxquant/mdcore/codec"
	"github.com/fluxquant/mdcore/ring"
)

// Outcome classifies the result of one PollCycle that consumed a
// datagram.
type Outcome int

const (
	OutcomeIdle Outcome = iota
	OutcomeForwarded
	OutcomeHeartbeat
	OutcomeTruncated
	OutcomeMalformed
)

// messageHeaderSize is the SBE message header: block_length(2) +
// template_id(2) + schema_id(2) + version(2).
const messageHeaderSize = 8

// minHeaderSize is the minimum datagram length PollCycle requires before
// it will even look at template_id, per the malformed-header check: bytes
// 2..4 must be present to decode template_id, but nothing past them is
// needed to make that decision.
const minHeaderSize = 4

// MalformedPacketError is returned by PollCycle when a datagram is too
// short (fewer than minHeaderSize bytes) to decode template_id.
type MalformedPacketError struct {
	Got int
}

func (e *MalformedPacketError) Error() string {
	return fmt.Sprintf("ingest: packet too short to decode template_id: got %d bytes, want at least %d", e.Got, minHeaderSize)
}

// Ingestor owns one multicast UDP socket.
type Ingestor struct {
	pconn *ipv4.PacketConn
	conn  net.PacketConn
	buf   []byte
}

// Open joins the multicast group at addr (host:port) on the named
// network interface (empty uses the default), with SO_REUSEADDR and
// SO_REUSEPORT set before bind so multiple processes can share the
// group.
func Open(ctx context.Context, addr, iface string, bufSize int) (*Ingestor, error) {
	udpAddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("ingest: resolve %s: %w", addr, err)
	}

	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var ctrlErr error
			err := c.Control(func(fd uintptr) {
				if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
					ctrlErr = fmt.Errorf("SO_REUSEADDR: %w", err)
					return
				}
				if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
					ctrlErr = fmt.Errorf("SO_REUSEPORT: %w", err)
					return
				}
			})
			if err != nil {
				return err
			}
			return ctrlErr
		},
	}

	conn, err := lc.ListenPacket(ctx, "udp4", fmt.Sprintf(":%d", udpAddr.Port))
	if err != nil {
		return nil, fmt.Errorf("ingest: listen on port %d: %w", udpAddr.Port, err)
	}

	pconn := ipv4.NewPacketConn(conn)
	var ifi *net.Interface
	if iface != "" {
		ifi, err = net.InterfaceByName(iface)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("ingest: interface %s: %w", iface, err)
		}
	}
	if err := pconn.JoinGroup(ifi, &net.UDPAddr{IP: udpAddr.IP}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ingest: join group %s: %w", udpAddr.IP, err)
	}

	return &Ingestor{pconn: pconn, conn: conn, buf: make([]byte, bufSize)}, nil
}

// Close leaves the multicast group and closes the socket.
func (i *Ingestor) Close() error {
	return i.conn.Close()
}

// PollCycle attempts one non-blocking receive. It returns
// (OutcomeIdle, nil) immediately if no datagram is already queued. A
// heartbeat (template_id 0) is counted but not forwarded. A datagram
// larger than writer's payload capacity is truncated rather than
// dropped, per the truncation policy.
func (i *Ingestor) PollCycle(writer *ring.Writer) (Outcome, error) {
	if err := i.conn.SetReadDeadline(time.Now()); err != nil {
		return OutcomeIdle, fmt.Errorf("ingest: set read deadline: %w", err)
	}

	n, _, err := i.conn.ReadFrom(i.buf)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return OutcomeIdle, nil
		}
		return OutcomeIdle, fmt.Errorf("ingest: read: %w", err)
	}

	payload := i.buf[:n]
	if len(payload) < minHeaderSize {
		return OutcomeMalformed, &MalformedPacketError{Got: len(payload)}
	}

	templateID := binary.LittleEndian.Uint16(payload[2:4])
	if templateID == codec.TemplateHeartbeat {
		return OutcomeHeartbeat, nil
	}

	truncated := false
	if len(payload) > writer.PayloadCapacity() {
		payload = payload[:writer.PayloadCapacity()]
		truncated = true
	}

	if _, err := writer.Publish(payload); err != nil {
		return OutcomeMalformed, fmt.Errorf("ingest: publish: %w", err)
	}
	if truncated {
		return OutcomeTruncated, nil
	}
	return OutcomeForwarded, nil
}

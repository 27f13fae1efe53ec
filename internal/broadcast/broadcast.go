// Package broadcast sends packets to the Pro DJ Link UDP broadcast port.
package broadcast

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"onairlink/internal/config"
	"onairlink/internal/logger"
	"onairlink/internal/prodjlink"
)

var universalBroadcast = net.IPv4(255, 255, 255, 255)

// Sender owns one UDP socket with SO_BROADCAST set. The destination is
// re-resolved per send so interface address changes take effect immediately.
type Sender struct {
	log       logger.Logger
	conn      *net.UDPConn
	iface     string
	localOnly bool
}

// NewSender opens the broadcast socket.
func NewSender(log logger.Logger, cfg config.NetworkConf) (*Sender, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		return nil, fmt.Errorf("failed to open UDP socket: %w", err)
	}

	raw, err := conn.SyscallConn()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to access raw socket: %w", err)
	}
	var sockErr error
	if err := raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	}); err != nil {
		sockErr = err
	}
	if sockErr != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set SO_BROADCAST: %w", sockErr)
	}

	return &Sender{
		log:       log,
		conn:      conn,
		iface:     cfg.Interface,
		localOnly: cfg.LocalBroadcast,
	}, nil
}

// Send transmits one packet to the current broadcast destination.
func (s *Sender) Send(pkt []byte) error {
	ipnet, err := interfaceIPNet(s.iface)
	if err != nil {
		return err
	}

	dst := &net.UDPAddr{
		IP:   Destination(ipnet, s.localOnly),
		Port: prodjlink.Port,
	}
	s.log.With(logger.Fields{"module": "broadcast"}).
		Debugf("sending %d bytes to %s", len(pkt), dst)

	if _, err := s.conn.WriteToUDP(pkt, dst); err != nil {
		return fmt.Errorf("failed to send to %s: %w", dst, err)
	}
	return nil
}

// Close releases the socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}

// Destination picks the address packets go to: the subnet's directed
// broadcast address when the interface only has a link-local address or
// local-only broadcast was requested, the universal broadcast otherwise.
func Destination(ipnet *net.IPNet, localOnly bool) net.IP {
	if localOnly || ipnet.IP.IsLinkLocalUnicast() {
		return DirectedBroadcast(ipnet)
	}
	return universalBroadcast
}

// DirectedBroadcast computes the highest address of the subnet.
func DirectedBroadcast(ipnet *net.IPNet) net.IP {
	ip := ipnet.IP.To4()
	mask := net.IP(ipnet.Mask).To4()
	out := make(net.IP, net.IPv4len)
	for i := range out {
		out[i] = ip[i] | ^mask[i]
	}
	return out
}

// interfaceIPNet returns the first IPv4 network of the named interface.
func interfaceIPNet(name string) (*net.IPNet, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("error getting interface %q: %w", name, err)
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("error getting ips of %q: %w", name, err)
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.To4() == nil {
			continue
		}
		return ipnet, nil
	}

	return nil, errors.New("no IPv4 address on interface " + name)
}

// ABOUTME: mDNS discovery for the controller bridge
// ABOUTME: Soundboards advertise _chime-pad._tcp, padsend browses for them
package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/Resonate-Protocol/chime/internal/version"
	"github.com/hashicorp/mdns"
	"go.uber.org/zap"
)

const (
	// ServiceType is the mDNS service a controller bridge registers
	ServiceType = "_chime-pad._tcp"

	// browseTimeout bounds one mDNS query round
	browseTimeout = 3 * time.Second
)

// Config holds discovery configuration
type Config struct {
	ServiceName string
	Port        int
	Path        string // websocket path advertised in TXT records
	Logger      *zap.SugaredLogger
}

// Manager handles mDNS operations
type Manager struct {
	config  Config
	logger  *zap.SugaredLogger
	ctx     context.Context
	cancel  context.CancelFunc
	bridges chan *BridgeInfo
}

// BridgeInfo describes a discovered controller bridge
type BridgeInfo struct {
	Name string
	Host string
	Port int
	Path string
}

// Addr returns host:port
func (b *BridgeInfo) Addr() string {
	return net.JoinHostPort(b.Host, fmt.Sprint(b.Port))
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if config.Path == "" {
		config.Path = "/controller"
	}

	return &Manager{
		config:  config,
		logger:  logger.Named("discovery"),
		ctx:     ctx,
		cancel:  cancel,
		bridges: make(chan *BridgeInfo, 10),
	}
}

// txtRecords describes the bridge to browsers
func (m *Manager) txtRecords() []string {
	return []string{
		"path=" + m.config.Path,
		"product=" + version.Product,
		"version=" + version.Version,
	}
}

// Advertise advertises this soundboard's bridge via mDNS until Stop
func (m *Manager) Advertise() error {
	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		ServiceType,
		"",
		"",
		m.config.Port,
		ips,
		m.txtRecords(),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	m.logger.Infow("Advertising mDNS service", "name", m.config.ServiceName,
		"port", m.config.Port, "type", ServiceType)

	go func() {
		<-m.ctx.Done()
		_ = server.Shutdown()
	}()

	return nil
}

// Browse searches for controller bridges until Stop
func (m *Manager) Browse() {
	go m.browseLoop()
}

// browseLoop continuously browses for bridges
func (m *Manager) browseLoop() {
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)
		done := make(chan struct{})

		go func() {
			defer close(done)
			for entry := range entries {
				bridge := entryToBridge(entry)
				if bridge == nil {
					continue
				}

				m.logger.Infow("Discovered bridge", "name", bridge.Name, "addr", bridge.Addr())

				select {
				case m.bridges <- bridge:
				case <-m.ctx.Done():
				}
			}
		}()

		params := mdns.DefaultParams(ServiceType)
		params.Timeout = browseTimeout
		params.Entries = entries
		params.DisableIPv6 = true

		if err := mdns.Query(params); err != nil {
			m.logger.Warnw("mDNS query failed", "error", err)
		}
		close(entries)
		<-done
	}
}

// entryToBridge converts an mDNS entry, nil when it has no IPv4 address
func entryToBridge(entry *mdns.ServiceEntry) *BridgeInfo {
	if entry.AddrV4 == nil {
		return nil
	}

	path := "/controller"
	for _, field := range entry.InfoFields {
		if v, ok := strings.CutPrefix(field, "path="); ok && v != "" {
			path = v
		}
	}

	return &BridgeInfo{
		Name: entry.Name,
		Host: entry.AddrV4.String(),
		Port: entry.Port,
		Path: path,
	}
}

// Bridges returns the channel of discovered bridges
func (m *Manager) Bridges() <-chan *BridgeInfo {
	return m.bridges
}

// Stop stops advertising and browsing
func (m *Manager) Stop() {
	m.cancel()
}

// getLocalIPs returns local IP addresses
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}

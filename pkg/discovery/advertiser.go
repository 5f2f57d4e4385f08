// Package discovery advertises the daemon on the local network so paired
// units and test rigs can find each other without static addressing.
package discovery

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/sirupsen/logrus"
)

// AdvertiserConfig represents mDNS advertiser configuration
type AdvertiserConfig struct {
	ServiceName string            `yaml:"service_name"`
	ServiceType string            `yaml:"service_type"`
	Domain      string            `yaml:"domain"`
	Port        int               `yaml:"port"`
	HostName    string            `yaml:"hostname"`
	TXTRecords  map[string]string `yaml:"txt_records"`
	TTL         time.Duration     `yaml:"ttl"`
	Interface   string            `yaml:"interface"`
}

// DefaultAdvertiserConfig returns default advertiser configuration
func DefaultAdvertiserConfig() *AdvertiserConfig {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "platformd"
	}

	return &AdvertiserConfig{
		ServiceName: hostname,
		ServiceType: "_platformd._tcp",
		Domain:      "local",
		Port:        8080,
		HostName:    hostname,
		TXTRecords:  map[string]string{},
		TTL:         3600 * time.Second,
	}
}

// Advertiser announces the daemon over mDNS. TXT records carry the
// device role, the active backend and its version so a peer can decide
// whether to pair before opening a connection.
type Advertiser struct {
	config   *AdvertiserConfig
	logger   *logrus.Entry
	server   *mdns.Server
	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewAdvertiser creates a new mDNS advertiser
func NewAdvertiser(config *AdvertiserConfig, logger *logrus.Logger) *Advertiser {
	if config == nil {
		config = DefaultAdvertiserConfig()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Advertiser{
		config:   config,
		logger:   logger.WithField("component", "mdns-advertiser"),
		stopChan: make(chan struct{}),
	}
}

// Start starts advertising the service via mDNS
func (a *Advertiser) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("advertiser is already running")
	}

	ip, err := a.getPrimaryIP()
	if err != nil {
		return fmt.Errorf("failed to get primary IP: %w", err)
	}

	txtRecords := make([]string, 0, len(a.config.TXTRecords))
	for key, value := range a.config.TXTRecords {
		if value != "" {
			txtRecords = append(txtRecords, key+"="+value)
		} else {
			txtRecords = append(txtRecords, key)
		}
	}

	service, err := mdns.NewMDNSService(
		a.config.ServiceName,
		a.config.ServiceType,
		a.config.Domain,
		a.config.HostName,
		a.config.Port,
		[]net.IP{ip},
		txtRecords,
	)
	if err != nil {
		return fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mDNS server: %w", err)
	}

	a.server = server
	a.running = true

	a.logger.WithFields(logrus.Fields{
		"service_name": a.config.ServiceName,
		"service_type": a.config.ServiceType,
		"port":         a.config.Port,
		"ip_address":   ip.String(),
		"txt_records":  len(txtRecords),
	}).Info("Started mDNS advertising")

	go a.monitorShutdown(ctx)

	return nil
}

// Stop stops the mDNS advertiser
func (a *Advertiser) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}

	a.logger.Info("Stopping mDNS advertising")

	close(a.stopChan)

	if a.server != nil {
		if err := a.server.Shutdown(); err != nil {
			a.logger.WithError(err).Error("Failed to shutdown mDNS server")
			return err
		}
		a.server = nil
	}

	a.running = false
	return nil
}

// IsRunning returns whether the advertiser is currently running
func (a *Advertiser) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// monitorShutdown stops the advertiser when the context is cancelled
func (a *Advertiser) monitorShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
		a.logger.Debug("Context cancelled, stopping advertiser")
		if err := a.Stop(); err != nil {
			a.logger.WithError(err).Error("Failed to stop advertiser on context cancellation")
		}
	case <-a.stopChan:
		return
	}
}

// getPrimaryIP gets the primary non-loopback IPv4 address
func (a *Advertiser) getPrimaryIP() (net.IP, error) {
	if a.config.Interface != "" {
		iface, err := net.InterfaceByName(a.config.Interface)
		if err != nil {
			return nil, fmt.Errorf("interface %s not found: %w", a.config.Interface, err)
		}

		addrs, err := iface.Addrs()
		if err != nil {
			return nil, fmt.Errorf("failed to get addresses for interface %s: %w", a.config.Interface, err)
		}

		for _, addr := range addrs {
			if ipNet, ok := addr.(*net.IPNet); ok && ipNet.IP.To4() != nil {
				return ipNet.IP, nil
			}
		}
		return nil, fmt.Errorf("no IPv4 address found on interface %s", a.config.Interface)
	}

	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to get network interfaces: %w", err)
	}

	var candidateIPs []net.IP

	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipNet, ok := addr.(*net.IPNet); ok && ipNet.IP.To4() != nil {
				ip := ipNet.IP.To4()
				if !ip.IsLoopback() && !ip.IsLinkLocalUnicast() {
					candidateIPs = append(candidateIPs, ip)
				}
			}
		}
	}

	if len(candidateIPs) == 0 {
		return nil, fmt.Errorf("no suitable IP address found")
	}

	for _, ip := range candidateIPs {
		if ip.IsPrivate() {
			return ip, nil
		}
	}

	return candidateIPs[0], nil
}

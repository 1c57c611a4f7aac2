package printer

import (
	"regexp"
	"strings"

	"go.bug.st/serial/enumerator"

	"comanda-go/internal/models"
)

// PortInfo describes one serial device visible on the host
type PortInfo struct {
	Path         string `json:"path"`
	Product      string `json:"product"`
	SerialNumber string `json:"serial_number"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
}

// PortDiscovery enumerates candidate serial devices. The production
// implementation walks the host's port list; tests inject a fake.
type PortDiscovery interface {
	List() ([]PortInfo, error)
}

type serialDiscovery struct{}

// NewSerialDiscovery returns the host serial-port based discovery
func NewSerialDiscovery() PortDiscovery {
	return serialDiscovery{}
}

func (serialDiscovery) List() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Path:         d.Name,
			Product:      d.Product,
			SerialNumber: d.SerialNumber,
			VID:          d.VID,
			PID:          d.PID,
		})
	}
	return ports, nil
}

// known thermal-printer vendors, matched against the device product name
var vendorPattern = regexp.MustCompile(`(?i)bematech|elgin|daruma|epson|pos|printer`)

// choosePort picks the port to open: devices without a serial number are
// skipped (dangling host ports report none), a recognized vendor wins, and
// the first surviving candidate is the deterministic fallback.
func choosePort(discovery PortDiscovery) (string, error) {
	ports, err := discovery.List()
	if err != nil {
		return "", err
	}

	candidates := make([]PortInfo, 0, len(ports))
	for _, p := range ports {
		if strings.TrimSpace(p.SerialNumber) != "" && p.SerialNumber != "N/A" {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return "", models.ErrNoPrinterFound
	}

	for _, c := range candidates {
		if vendorPattern.MatchString(c.Product) {
			return c.Path, nil
		}
	}
	return candidates[0].Path, nil
}

package printer

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"comanda-go/internal/models"
)

// Bematech-style ESC control sequences
var (
	expandedFont = []byte{0x1B, 0x57, 0x01}
	cutPaper     = []byte{0x1B, 0x6D}
)

// Port is the slice of the serial device surface the printer needs.
// go.bug.st/serial.Port satisfies it; tests provide a fake.
type Port interface {
	Write(p []byte) (int, error)
	Drain() error
	Close() error
}

// PortOpener opens a named serial device at the given baud rate
type PortOpener func(name string, baud int) (Port, error)

// OpenSerial is the production PortOpener
func OpenSerial(name string, baud int) (Port, error) {
	return serial.Open(name, &serial.Mode{BaudRate: baud})
}

// Printer drives the thermal printer over one shared serial connection.
// The mutex serializes connects and prints: the device has no arbitration of
// its own and interleaved writes corrupt the paper output.
type Printer struct {
	mu        sync.Mutex
	discovery PortDiscovery
	open      PortOpener
	baud      int

	portName string
	port     Port
}

// Status reports the connection state for the printer endpoints
type Status struct {
	Port      string `json:"port"`
	Connected bool   `json:"connected"`
}

// NewPrinter creates a printer over the given discovery strategy. A nil
// opener uses the real serial device.
func NewPrinter(discovery PortDiscovery, opener PortOpener, baud int) *Printer {
	if opener == nil {
		opener = OpenSerial
	}
	if baud <= 0 {
		baud = 9600
	}
	return &Printer{discovery: discovery, open: opener, baud: baud}
}

// Connect opens the serial device. With an empty explicit port the device is
// auto-discovered. An existing connection is closed first.
func (p *Printer) Connect(explicitPort string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.port != nil {
		_ = p.port.Close()
		p.port = nil
	}

	name := explicitPort
	if name == "" {
		chosen, err := choosePort(p.discovery)
		if err != nil {
			return err
		}
		name = chosen
	}

	port, err := p.open(name, p.baud)
	if err != nil {
		return fmt.Errorf("opening serial port %s: %w", name, err)
	}
	p.portName = name
	p.port = port
	log.Infof("Printer connected on port %s", name)
	return nil
}

// Print encodes the text to the printer code page, frames it with the font
// and cut control sequences, writes it and waits for the buffer to drain.
func (p *Printer) Print(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.port == nil {
		return models.ErrPortNotOpen
	}

	encoded, err := encodeReceipt(text + "\n\n\n\n")
	if err != nil {
		return fmt.Errorf("encoding receipt: %w", err)
	}

	buf := make([]byte, 0, len(expandedFont)+len(encoded)+len(cutPaper))
	buf = append(buf, expandedFont...)
	buf = append(buf, encoded...)
	buf = append(buf, cutPaper...)

	if _, err := p.port.Write(buf); err != nil {
		return fmt.Errorf("writing to printer: %w", err)
	}
	if err := p.port.Drain(); err != nil {
		return fmt.Errorf("draining printer buffer: %w", err)
	}
	return nil
}

// Status returns the current connection state
func (p *Printer) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{Port: p.portName, Connected: p.port != nil}
}

// ListPorts exposes the discovery result for the printer endpoints
func (p *Printer) ListPorts() ([]PortInfo, error) {
	return p.discovery.List()
}

// Disconnect closes the serial device if open
func (p *Printer) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	p.portName = ""
	return err
}

// encodeReceipt maps the receipt text to Windows-1252, the single-byte code
// page the printer firmware expects. Unmappable runes become substitutes
// instead of failing the whole print.
func encodeReceipt(text string) ([]byte, error) {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	return enc.Bytes([]byte(text))
}

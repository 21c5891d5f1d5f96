// Package testutils provides in-memory fakes of the transport interfaces so
// discovery and session behavior can be tested without a BLE stack.
package testutils

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/srg/hrmon/internal/transport"
)

// NewTestLogger returns a discard logger for injecting into components under
// test. Swap the output for os.Stderr when debugging a test.
func NewTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	logger.SetOutput(io.Discard)
	return logger
}

// FakeCharacteristic is a characteristic identified by its UUID alone.
type FakeCharacteristic string

func (c FakeCharacteristic) UUID() string { return string(c) }

// FakePeripheral is a scriptable transport.Peripheral. Configure advertised
// properties, characteristics and per-call errors, then feed notifications
// with Notify and end the stream with EndStream.
type FakePeripheral struct {
	mu sync.Mutex

	props     transport.Properties
	charUUIDs []string

	// ConnectErrs is consumed one entry per Connect call; a nil entry means
	// success. Calls beyond the queue succeed.
	ConnectErrs  []error
	DiscoverErr  error
	SubscribeErr error

	ConnectCalls    int
	SubscribeCalls  int
	DisconnectCalls int

	stream chan transport.Notification
	ended  bool
}

// NewFakePeripheral creates a peripheral advertising the given name and
// address, exposing the given characteristic UUIDs once connected.
func NewFakePeripheral(name, address string, charUUIDs ...string) *FakePeripheral {
	return &FakePeripheral{
		props:     transport.Properties{LocalName: name, Address: address, RSSI: -60},
		charUUIDs: charUUIDs,
		stream:    make(chan transport.Notification, 64),
	}
}

func (p *FakePeripheral) Properties() transport.Properties {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.props
}

func (p *FakePeripheral) Connect(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ConnectCalls++
	if len(p.ConnectErrs) > 0 {
		err := p.ConnectErrs[0]
		p.ConnectErrs = p.ConnectErrs[1:]
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *FakePeripheral) DiscoverServices() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.DiscoverErr
}

func (p *FakePeripheral) Characteristics() []transport.Characteristic {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make([]transport.Characteristic, 0, len(p.charUUIDs))
	for _, uuid := range p.charUUIDs {
		result = append(result, FakeCharacteristic(uuid))
	}
	return result
}

func (p *FakePeripheral) Subscribe(_ transport.Characteristic) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.SubscribeCalls++
	return p.SubscribeErr
}

func (p *FakePeripheral) Notifications() (<-chan transport.Notification, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stream, nil
}

func (p *FakePeripheral) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.DisconnectCalls++
	return nil
}

// Notify feeds one notification into the stream.
func (p *FakePeripheral) Notify(uuid string, value []byte) {
	p.stream <- transport.Notification{UUID: uuid, Value: value}
}

// EndStream closes the notification stream, simulating a naturally ended
// connection. Idempotent.
func (p *FakePeripheral) EndStream() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ended {
		p.ended = true
		close(p.stream)
	}
}

// Disconnects returns the number of Disconnect calls observed.
func (p *FakePeripheral) Disconnects() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.DisconnectCalls
}

// Connects returns the number of Connect calls observed.
func (p *FakePeripheral) Connects() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ConnectCalls
}

// FakeAdapter serves a fixed set of peripherals to every scan.
type FakeAdapter struct {
	mu sync.Mutex

	periphs  []transport.Peripheral
	StartErr error
	StopErr  error

	StartCalls int
	StopCalls  int
}

// NewFakeAdapter creates an adapter that discovers the given peripherals, in
// order, on every scan.
func NewFakeAdapter(periphs ...*FakePeripheral) *FakeAdapter {
	a := &FakeAdapter{}
	for _, p := range periphs {
		a.periphs = append(a.periphs, p)
	}
	return a
}

func (a *FakeAdapter) StartScan(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.StartCalls++
	return a.StartErr
}

func (a *FakeAdapter) StopScan() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.StopCalls++
	return a.StopErr
}

func (a *FakeAdapter) Peripherals() []transport.Peripheral {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := make([]transport.Peripheral, len(a.periphs))
	copy(result, a.periphs)
	return result
}

// Scans returns the number of StartScan calls observed.
func (a *FakeAdapter) Scans() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.StartCalls
}

// FakeManager hands out a single fake adapter.
type FakeManager struct {
	mu sync.Mutex

	Adapter *FakeAdapter
	Err     error

	AcquireCalls int
}

// NewFakeManager creates a manager serving the given adapter. A nil adapter
// yields an empty adapter list, the "no adapters" case.
func NewFakeManager(adapter *FakeAdapter) *FakeManager {
	return &FakeManager{Adapter: adapter}
}

func (m *FakeManager) Adapters(_ context.Context) ([]transport.Adapter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AcquireCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Adapter == nil {
		return nil, nil
	}
	return []transport.Adapter{m.Adapter}, nil
}

// Acquisitions returns the number of Adapters calls observed.
func (m *FakeManager) Acquisitions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AcquireCalls
}

package goble

import (
	"context"
	"fmt"
	"sync"

	ble "github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/hrmon/internal/ringchan"
	"github.com/srg/hrmon/internal/transport"
)

// notifyBuffer is the per-connection notification buffer. Oldest entries are
// dropped when the consumer falls this far behind, keeping the BLE callback
// thread from blocking.
const notifyBuffer = 128

// characteristic pairs the normalized UUID with the live go-ble handle.
type characteristic struct {
	uuid string
	ble  *ble.Characteristic
}

func (c *characteristic) UUID() string {
	return c.uuid
}

// peripheral is a discovered remote device backed by go-ble. Advertisement
// data is refreshed while scanning; connection state lives behind connMu.
type peripheral struct {
	logger *logrus.Logger

	mu    sync.RWMutex
	props transport.Properties

	connMu sync.Mutex
	client ble.Client
	chars  *orderedmap.OrderedMap[string, *characteristic]
	stream *ringchan.Ring[transport.Notification]
}

func newPeripheral(adv ble.Advertisement, logger *logrus.Logger) *peripheral {
	return &peripheral{
		logger: logger,
		props: transport.Properties{
			LocalName: adv.LocalName(),
			Address:   adv.Addr().String(),
			RSSI:      adv.RSSI(),
		},
	}
}

// update refreshes advertised data from a repeated advertisement.
func (p *peripheral) update(adv ble.Advertisement) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.props.RSSI = adv.RSSI()
	if name := adv.LocalName(); name != "" {
		p.props.LocalName = name
	}
}

func (p *peripheral) Properties() transport.Properties {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.props
}

// Connect dials the peripheral and prepares a fresh notification stream for
// this connection.
func (p *peripheral) Connect(ctx context.Context) error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	if p.client != nil {
		return transport.WrapError("connect", fmt.Errorf("already connected"))
	}

	addr := p.Properties().Address
	p.logger.WithField("address", addr).Debug("Dialing peripheral")

	client, err := ble.Dial(ctx, ble.NewAddr(addr))
	if err != nil {
		return transport.WrapError("connect", NormalizeError(err))
	}

	stream := ringchan.New[transport.Notification](notifyBuffer)
	p.client = client
	p.chars = orderedmap.New[string, *characteristic]()
	p.stream = stream

	// End the stream when the stack reports disconnection, so consumers see a
	// finite sequence even without an explicit Disconnect call.
	if dc, ok := client.(interface{ Disconnected() <-chan struct{} }); ok {
		go func() {
			<-dc.Disconnected()
			p.logger.WithField("address", addr).Debug("Peripheral reported disconnection")
			stream.Close()
		}()
	}

	return nil
}

// DiscoverServices walks the GATT profile and records characteristics in
// discovery order.
func (p *peripheral) DiscoverServices() error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	if p.client == nil {
		return transport.WrapError("discover", fmt.Errorf("not connected"))
	}

	profile, err := p.client.DiscoverProfile(true)
	if err != nil {
		return transport.WrapError("discover", NormalizeError(err))
	}

	for _, svc := range profile.Services {
		for _, ch := range svc.Characteristics {
			uuid := transport.NormalizeUUID(ch.UUID.String())
			p.chars.Set(uuid, &characteristic{uuid: uuid, ble: ch})
		}
	}

	p.logger.WithFields(logrus.Fields{
		"address":         p.Properties().Address,
		"services":        len(profile.Services),
		"characteristics": p.chars.Len(),
	}).Debug("GATT profile discovered")
	return nil
}

// Characteristics lists discovered characteristics in discovery order.
func (p *peripheral) Characteristics() []transport.Characteristic {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	if p.chars == nil {
		return nil
	}
	result := make([]transport.Characteristic, 0, p.chars.Len())
	for pair := p.chars.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, pair.Value)
	}
	return result
}

// Subscribe enables notifications on c; values land on the connection stream
// tagged with the characteristic UUID.
func (p *peripheral) Subscribe(c transport.Characteristic) error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	if p.client == nil {
		return transport.WrapError("subscribe", fmt.Errorf("not connected"))
	}

	uuid := transport.NormalizeUUID(c.UUID())
	ch, ok := p.chars.Get(uuid)
	if !ok {
		return transport.WrapError("subscribe", fmt.Errorf("characteristic %q not discovered", c.UUID()))
	}

	stream := p.stream
	err := p.client.Subscribe(ch.ble, false, func(data []byte) {
		// go-ble reuses the callback buffer; copy before handing off.
		value := append([]byte(nil), data...)
		if stream.Send(transport.Notification{UUID: uuid, Value: value}) {
			p.logger.WithField("characteristic", uuid).Warn("Notification buffer full, dropped oldest")
		}
	})
	if err != nil {
		return transport.WrapError("subscribe", NormalizeError(err))
	}

	p.logger.WithField("characteristic", uuid).Debug("Subscribed to notifications")
	return nil
}

// Notifications returns the current connection's stream.
func (p *peripheral) Notifications() (<-chan transport.Notification, error) {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	if p.stream == nil {
		return nil, transport.WrapError("subscribe", fmt.Errorf("not connected"))
	}
	return p.stream.C(), nil
}

// Disconnect tears down the connection and closes the notification stream.
func (p *peripheral) Disconnect() error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	if p.client == nil {
		return nil
	}

	err := p.client.CancelConnection()
	p.stream.Close()
	p.client = nil
	p.chars = nil

	p.logger.WithField("address", p.Properties().Address).Debug("Disconnected from peripheral")
	return transport.WrapError("disconnect", NormalizeError(err))
}

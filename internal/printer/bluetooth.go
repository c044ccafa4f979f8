// Bluetooth LE transport. Zebra mobile printers expose a "parser" GATT
// service with one characteristic for writing ZPL to the device and one
// that notifies with the device's responses. This file assumes a single
// printer connection at a time.
package printer

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tinygo.org/x/bluetooth"
)

type characteristicKind byte

const (
	parserService characteristicKind = 0x80
	fromPrinter   characteristicKind = 0x81
	toPrinter     characteristicKind = 0x82
)

func parserUUID(k characteristicKind) bluetooth.UUID {
	return bluetooth.NewUUID([16]byte{
		0x38, 0xeb, 0x4a, byte(k), 0xc5, 0x70, 0x11, 0xe3, 0x95, 0x07, 0x00, 0x02, 0xa5, 0xd5, 0xc5, 0x1b,
	})
}

// BLE writes are MTU limited; documents are written in chunks of this size.
const bluetoothChunkSize = 512

type BluetoothConnection struct {
	device   bluetooth.Device
	writer   bluetooth.DeviceCharacteristic
	notifier bluetooth.DeviceCharacteristic
	incoming chan []byte
	timeout  time.Duration
}

// DialBluetooth scans for a printer advertising the given local name,
// connects and wires up the parser service characteristics. The timeout
// bounds each diagnostic query, not the scan.
func DialBluetooth(name string, timeout time.Duration) (*BluetoothConnection, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("couldn't enable bluetooth adapter: %w", err)
	}

	devices := make(chan bluetooth.ScanResult, 1)
	go func() {
		err := adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if result.LocalName() == name {
				slog.Info("Found printer",
					"deviceName", result.LocalName(),
				)
				devices <- result
				adapter.StopScan()
			}
		})
		if err != nil {
			slog.Error("Failed to scan for devices:",
				"err", err,
			)
			close(devices)
		}
	}()

	dev, ok := <-devices
	if !ok {
		return nil, errors.New("no printer found")
	}

	slog.Debug("Connecting to device...")
	device, err := adapter.Connect(dev.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to %s: %w", name, err)
	}

	slog.Debug("Discovering parser service...")
	services, err := device.DiscoverServices([]bluetooth.UUID{parserUUID(parserService)})
	if err != nil {
		device.Disconnect()
		return nil, fmt.Errorf("couldn't discover parser service: %w", err)
	}

	slog.Debug("Discovering characteristics...")
	characteristics, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{
		parserUUID(toPrinter), parserUUID(fromPrinter),
	})
	if err != nil {
		device.Disconnect()
		return nil, fmt.Errorf("couldn't discover parser characteristics: %w", err)
	}

	c := &BluetoothConnection{
		device:   device,
		writer:   characteristics[0],
		notifier: characteristics[1],
		incoming: make(chan []byte, 16),
		timeout:  timeout,
	}
	err = c.notifier.EnableNotifications(func(data []byte) {
		// copy: the stack may reuse the buffer
		c.incoming <- append([]byte(nil), data...)
	})
	if err != nil {
		device.Disconnect()
		return nil, fmt.Errorf("couldn't enable notifications: %w", err)
	}
	return c, nil
}

func (c *BluetoothConnection) write(data []byte) error {
	for len(data) > 0 {
		n := min(len(data), bluetoothChunkSize)
		if _, err := c.writer.WriteWithoutResponse(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

func (c *BluetoothConnection) Send(document string) error {
	if err := c.write([]byte(document)); err != nil {
		return fmt.Errorf("couldn't send document: %w", err)
	}
	slog.Debug("Wrote document to device", "size", len(document))
	return nil
}

func (c *BluetoothConnection) Query(command string) ([]byte, error) {
	if err := c.write([]byte(command)); err != nil {
		return nil, fmt.Errorf("couldn't send query %q: %w", command, err)
	}

	deadline := time.NewTimer(c.timeout)
	defer deadline.Stop()

	var buf []byte
	for !bytes.Contains(buf, []byte{ETX}) {
		select {
		case data := <-c.incoming:
			buf = append(buf, data...)
		case <-deadline.C:
			return nil, fmt.Errorf("timed out after %v waiting for response to %q", c.timeout, command)
		}
	}
	return buf, nil
}

func (c *BluetoothConnection) Close() error {
	return c.device.Disconnect()
}

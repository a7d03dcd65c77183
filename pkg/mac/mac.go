package mac

import (
	"errors"
	"fmt"
	"strings"
)

// Length of a hardware (EUI-48) address in bytes
const Length = 6

// MagicPacketSize is 6 x 0xFF followed by 16 repetitions of the address
const MagicPacketSize = 6 + 16*Length

var ErrInvalidAddress = errors.New("invalid mac address")

// Address is a 6-byte hardware address. It is comparable and can be used as a map key.
type Address [Length]byte

// Parse accepts exactly six lowercase hex pairs separated by ':'.
// Upper case and '-' separators are rejected rather than normalized.
func Parse(s string) (Address, error) {
	var a Address

	parts := strings.Split(s, ":")
	if len(parts) != Length {
		return a, fmt.Errorf("%w: %q: expected %d segments, got %d", ErrInvalidAddress, s, Length, len(parts))
	}

	for i, part := range parts {
		if len(part) != 2 {
			return a, fmt.Errorf("%w: %q: segment %d is not 2 characters", ErrInvalidAddress, s, i)
		}
		hi, ok := nibble(part[0])
		if !ok {
			return a, fmt.Errorf("%w: %q: segment %d is not lowercase hex", ErrInvalidAddress, s, i)
		}
		lo, ok := nibble(part[1])
		if !ok {
			return a, fmt.Errorf("%w: %q: segment %d is not lowercase hex", ErrInvalidAddress, s, i)
		}
		a[i] = hi<<4 | lo
	}

	return a, nil
}

func nibble(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

const hexDigits = "0123456789abcdef"

func (a Address) String() string {
	var sb strings.Builder
	sb.Grow(3*Length - 1)
	for i, b := range a {
		if i != 0 {
			sb.WriteByte(':')
		}
		sb.WriteByte(hexDigits[b>>4])
		sb.WriteByte(hexDigits[b&0x0f])
	}
	return sb.String()
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	p, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = p
	return nil
}

// MagicPacket returns the Wake-on-LAN payload for this address
func (a Address) MagicPacket() []byte {
	packet := make([]byte, 0, MagicPacketSize)
	for i := 0; i < 6; i++ {
		packet = append(packet, 0xff)
	}
	for i := 0; i < 16; i++ {
		packet = append(packet, a[:]...)
	}
	return packet
}

package arq

// PayloadSize is the fixed length of every packet payload and of every
// application message.
const PayloadSize = 20

// NotInUse fills header fields that carry no meaning for a given packet:
// AckNum on data packets, SeqNum on acknowledgment packets.
const NotInUse = -1

// Packet is the only unit exchanged over the channel.
type Packet struct {
	SeqNum   int
	AckNum   int
	Checksum int
	Payload  [PayloadSize]byte
}

// Checksum sums the sequence number, the acknowledgment number, and every
// payload byte. Additive and weak; the emulated channel damages individual
// bytes, which this always catches.
func Checksum(p Packet) int {
	sum := p.SeqNum + p.AckNum
	for _, b := range p.Payload {
		sum += int(b)
	}
	return sum
}

// Corrupted reports whether the packet's stored checksum disagrees with a
// freshly computed one.
func Corrupted(p Packet) bool {
	return p.Checksum != Checksum(p)
}

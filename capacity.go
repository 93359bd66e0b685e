package steg

// CapacityBits returns how many payload bits a cover holds when every channel
// carries g bits.
func CapacityBits(pixelCount, channelsPerPixel int, g Granularity) int {
	return pixelCount * channelsPerPixel * int(g)
}

// RequiredBits returns the capacity, in bits at granularity g, consumed by a
// header of headerLen bytes and a payload of payloadLen bytes.
//
// The header is always written one bit per channel, so each of its bits takes
// a whole channel and is charged g bits. The payload is charged whole units,
// padding included.
func RequiredBits(headerLen, payloadLen int, g Granularity) int {
	return ChannelsUsed(headerLen, payloadLen, g) * int(g)
}

// ChannelsUsed returns how many channel values a header of headerLen bytes
// and a payload of payloadLen bytes occupy.
func ChannelsUsed(headerLen, payloadLen int, g Granularity) int {
	return UnitCount(headerLen, headerGranularity) + UnitCount(payloadLen, g)
}

// MaxPayloadLen returns the longest embedded body, in bytes, that fits in a
// cover of pixelCount pixels with channelsPerPixel channels at granularity g.
// The body is the payload after compression.
func MaxPayloadLen(pixelCount, channelsPerPixel int, g Granularity) int {
	free := pixelCount*channelsPerPixel - UnitCount(HeaderLen, headerGranularity)
	if free <= 0 {
		return 0
	}
	return free * int(g) / 8
}

// Validate fails with a *CapacityError when required exceeds capacity.
func Validate(required, capacity int) error {
	if required > capacity {
		return &CapacityError{Required: required, Available: capacity}
	}
	return nil
}

// utilisation returns required/capacity as a percentage, for logging.
func utilisation(required, capacity int) float64 {
	if capacity == 0 {
		return 0
	}
	return float64(required) / float64(capacity) * 100
}

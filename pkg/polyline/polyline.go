// Package polyline implements the encoded polyline algorithm format used by
// the transit provider for route shapes. Coordinates are delta encoded,
// zigzag signed and packed into 5 bit chunks at a 1e5 scale factor.
package polyline

import (
	"fmt"
	"math"
	"strings"

	"github.com/transitview/transitview/pkg/tvf"
)

const scaleFactor = 1e5

// Decode converts an encoded polyline string into an ordered sequence of
// locations
func Decode(encoded string) ([]tvf.Location, error) {
	var points []tvf.Location

	index := 0
	lat := 0
	lng := 0

	for index < len(encoded) {
		dLat, consumed, err := decodeValue(encoded[index:])
		if err != nil {
			return nil, err
		}
		index += consumed
		lat += dLat

		dLng, consumed, err := decodeValue(encoded[index:])
		if err != nil {
			return nil, err
		}
		index += consumed
		lng += dLng

		points = append(points, tvf.Location{
			Latitude:  float64(lat) / scaleFactor,
			Longitude: float64(lng) / scaleFactor,
		})
	}

	return points, nil
}

func decodeValue(encoded string) (int, int, error) {
	result := 0
	shift := 0

	for i := 0; i < len(encoded); i++ {
		b := int(encoded[i]) - 63
		if b < 0 {
			return 0, 0, fmt.Errorf("invalid polyline character %q", encoded[i])
		}

		result |= (b & 0x1f) << shift
		shift += 5

		if b < 0x20 {
			// Undo the zigzag encoding
			if result&1 == 1 {
				return ^(result >> 1), i + 1, nil
			}
			return result >> 1, i + 1, nil
		}
	}

	return 0, 0, fmt.Errorf("polyline truncated mid value")
}

// Encode is the inverse of Decode
func Encode(points []tvf.Location) string {
	var builder strings.Builder

	lat := 0
	lng := 0

	for _, point := range points {
		nextLat := int(math.Round(point.Latitude * scaleFactor))
		nextLng := int(math.Round(point.Longitude * scaleFactor))

		encodeValue(&builder, nextLat-lat)
		encodeValue(&builder, nextLng-lng)

		lat = nextLat
		lng = nextLng
	}

	return builder.String()
}

func encodeValue(builder *strings.Builder, value int) {
	value <<= 1
	if value < 0 {
		value = ^value
	}

	for value >= 0x20 {
		builder.WriteByte(byte((0x20 | (value & 0x1f)) + 63))
		value >>= 5
	}
	builder.WriteByte(byte(value + 63))
}

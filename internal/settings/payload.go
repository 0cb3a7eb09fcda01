package settings

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rokkenjima/watchface/internal/colour"
)

// truthy is the integer a boolean field must equal to be enabled.
const truthy = 1

// Payload is a sparse update as delivered by the configuration channel. Values keep
// their wire type: integers, floats, json.Number, bools or strings.
type Payload map[Key]any

// PayloadFromMap converts a decoded JSON object into a Payload.
func PayloadFromMap(m map[string]any) Payload {
	p := make(Payload, len(m))
	for k, v := range m {
		p[Key(k)] = v
	}

	return p
}

func decodeColour(v any) (colour.Colour, error) {
	if s, ok := v.(string); ok {
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(strings.ToLower(trimmed), "0x") {
			return colour.ParseHEX(trimmed)
		}
	}

	n, err := toInt(v)
	if err != nil {
		return colour.Clear, err
	}

	c, ok := colour.FromPacked(n)
	if !ok {
		return colour.Clear, fmt.Errorf("%w: %d", ErrValueRange, n)
	}

	return c, nil
}

func decodeBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "on":
			return true, nil
		case "false", "off":
			return false, nil
		}
	}

	n, err := toInt(v)
	if err != nil {
		return false, err
	}

	return n == truthy, nil
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d", ErrValueRange, n)
		}

		return int64(n), nil
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}

		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrValueType, n.String())
		}

		return floatToInt(f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrValueType, n)
		}

		return i, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrValueType, v)
	}
}

func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v", ErrValueType, f)
	}

	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: %v", ErrValueRange, f)
	}

	return int64(f), nil
}

package builders

import (
	"fmt"
	"math"
	"time"

	"github.com/callscope/callscope/core"
)

// Convert is the default mapping from native column values to the value
// union. Engine-specific deviations are layered on top through
// WithConverter; anything outside the union fails with a type mismatch
// rather than a silent stringification.
func Convert(val any) (core.Value, error) {
	switch t := val.(type) {
	case nil:
		return core.Null(), nil
	case bool:
		return core.NewBool(t), nil
	case string:
		return core.NewString(t), nil
	case []byte:
		return core.NewString(string(t)), nil
	case int:
		return core.NewInt(int64(t)), nil
	case int8:
		return core.NewInt(int64(t)), nil
	case int16:
		return core.NewInt(int64(t)), nil
	case int32:
		return core.NewInt(int64(t)), nil
	case int64:
		return core.NewInt(t), nil
	case uint8:
		return core.NewInt(int64(t)), nil
	case uint16:
		return core.NewInt(int64(t)), nil
	case uint32:
		return core.NewInt(int64(t)), nil
	case uint:
		return convertUint64(uint64(t))
	case uint64:
		return convertUint64(t)
	case float32:
		return core.NewFloat(float64(t)), nil
	case float64:
		return core.NewFloat(t), nil
	case time.Time:
		return core.NewString(t.Format(time.RFC3339Nano)), nil
	case []any:
		list := make([]core.Value, len(t))
		for i, el := range t {
			conv, err := Convert(el)
			if err != nil {
				return core.Value{}, err
			}
			list[i] = conv
		}
		return core.NewList(list), nil
	default:
		return core.Value{}, &core.TypeMismatchError{
			Expected: "supported type",
			Actual:   fmt.Sprintf("%T", val),
		}
	}
}

func convertUint64(val uint64) (core.Value, error) {
	if val > math.MaxInt64 {
		return core.Value{}, &core.TypeMismatchError{
			Expected: "int",
			Actual:   fmt.Sprintf("unsigned value %d out of range", val),
		}
	}
	return core.NewInt(int64(val)), nil
}

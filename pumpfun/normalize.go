package pumpfun

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// maxSafeInteger is the largest integer a float64 represents exactly.
const maxSafeInteger = 1<<53 - 1

// NormalizeLayout recursively converts a decoded instruction/event structure
// into plain maps, slices, numbers and strings. Integer magnitudes above
// maxSafeInteger are rendered as decimal strings so nothing loses precision;
// smaller values become float64. Keys, signatures and raw byte blobs are
// rendered base58. Total over any input; no failure mode.
func NormalizeLayout(v interface{}) interface{} {
	return normalizeValue(reflect.ValueOf(v))
}

func normalizeValue(rv reflect.Value) interface{} {
	if !rv.IsValid() {
		return nil
	}

	if rv.CanInterface() {
		switch x := rv.Interface().(type) {
		case solana.PublicKey:
			return x.String()
		case solana.Signature:
			return x.String()
		case *big.Int:
			if x == nil {
				return nil
			}
			return normalizeBigInt(x)
		case big.Int:
			return normalizeBigInt(&x)
		case []byte:
			return base58.Encode(x)
		}
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalizeValue(rv.Elem())
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > maxSafeInteger {
			return strconv.FormatUint(u, 10)
		}
		return float64(u)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i > maxSafeInteger || i < -maxSafeInteger {
			return strconv.FormatInt(i, 10)
		}
		return float64(i)
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 && rv.Kind() == reflect.Slice {
			return base58.Encode(rv.Bytes())
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalizeValue(rv.Index(i))
		}
		return out
	case reflect.Map:
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, ok := normalizeValue(iter.Key()).(string)
			if !ok {
				key = fmt.Sprint(iter.Key().Interface())
			}
			out[key] = normalizeValue(iter.Value())
		}
		return out
	case reflect.Struct:
		t := rv.Type()
		out := make(map[string]interface{}, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" { // unexported
				continue
			}
			out[f.Name] = normalizeValue(rv.Field(i))
		}
		return out
	default:
		return nil
	}
}

func normalizeBigInt(x *big.Int) interface{} {
	if x.IsInt64() {
		i := x.Int64()
		if i <= maxSafeInteger && i >= -maxSafeInteger {
			return float64(i)
		}
	}
	return x.String()
}

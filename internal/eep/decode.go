package eep

import (
	"math"
	"math/big"
)

// Decode evaluates every field of profile against payload, returning a map
// keyed by field shortcut. Enum fields additionally populate a
// "<shortcut>_text" key with the matched label, when one exists.
//
// Fields whose bit range falls outside the payload are silently skipped,
// matching a profile written for a longer variant of a telegram that this
// payload doesn't carry.
func Decode(profile Profile, payload []byte) map[string]any {
	out := make(map[string]any, len(profile.Fields))
	if len(payload) == 0 {
		return out
	}

	payloadBits := len(payload) * 8
	payloadInt := new(big.Int).SetBytes(payload)

	for _, field := range profile.Fields {
		shift := payloadBits - field.Offset - field.Size
		if shift < 0 || field.Size <= 0 {
			continue
		}

		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(field.Size)), big.NewInt(1))
		raw := new(big.Int).Rsh(payloadInt, uint(shift))
		raw.And(raw, mask)
		rawInt := int(raw.Int64())

		switch field.Kind {
		case FieldEnum:
			out[field.Shortcut] = rawInt
			if label, ok := enumLabel(field, rawInt); ok {
				out[field.Shortcut+"_text"] = label
			}
		case FieldValue:
			out[field.Shortcut] = scaleValue(field, rawInt)
		default: // FieldStatus, FieldRaw, and anything unrecognized
			out[field.Shortcut] = rawInt
		}
	}

	return out
}

func enumLabel(field FieldDescriptor, raw int) (string, bool) {
	for _, v := range field.Values {
		if v.Value == raw {
			return v.Description, true
		}
	}
	return "", false
}

// scaleValue linearly maps raw from field.RawRange onto field.Scale,
// rounded to two decimal places. When the raw range is degenerate (min ==
// max) the raw integer is returned unscaled.
func scaleValue(field FieldDescriptor, raw int) any {
	rawMin, rawMax := field.RawRange.Min, field.RawRange.Max
	if rawMax == rawMin {
		return raw
	}

	scaleMin, scaleMax := field.Scale.Min, field.Scale.Max
	scaled := scaleMin + (float64(raw)-rawMin)*(scaleMax-scaleMin)/(rawMax-rawMin)
	return math.Round(scaled*100) / 100
}

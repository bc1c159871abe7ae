package codec

import "math"

// decimalFractionEps is the threshold below which a mantissa is treated
// as an integer; it absorbs binary floating-point drift (e.g. 2330.5
// multiplied by powers of ten).
const decimalFractionEps = 1e-9

// maxDecimalIterations bounds WriteDecimal64's search for the minimal
// exponent, giving at most 9 decimal places of precision.
const maxDecimalIterations = 9

// WriteDecimal64 converts value to (mantissa int64, exponent int8) such
// that mantissa*10^exponent approximates value, then writes the 9-byte
// encoding. The exponent is decremented (at most 9 times) until the
// scaled value's fractional part is below decimalFractionEps. Binary
// drift can leave a fractional part just under 1 (123.456 scales to
// 123455.99999...), so the exponent is not always the smallest one that
// represents value: 123.456 encodes as (123456000000, -9).
func (e *Encoder) WriteDecimal64(value float64) error {
	mantissa, exponent := decimalFromFloat(value)
	return e.WriteDecimal64Raw(mantissa, exponent)
}

func decimalFromFloat(value float64) (int64, int8) {
	mantissa := value
	exponent := int8(0)
	for i := 0; i < maxDecimalIterations; i++ {
		frac := mantissa - math.Trunc(mantissa)
		if math.Abs(frac) < decimalFractionEps {
			break
		}
		mantissa *= 10
		exponent--
	}
	return int64(math.Round(mantissa)), exponent
}

// DecodeDecimal64 reconstructs the float64 value mantissa*10^exponent.
// It exists for tests and for readers that happen to live in this
// process; wire readers are an external concern.
func DecodeDecimal64(mantissa int64, exponent int8) float64 {
	return float64(mantissa) * math.Pow(10, float64(exponent))
}

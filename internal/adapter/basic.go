package adapter

import "strconv"

// Price is an integral JPY price.
type Price int64

func (p Price) AppendString(buf []byte) []byte {
	return strconv.AppendInt(buf, int64(p), 10)
}

func (p Price) String() string {
	return string(p.AppendString(nil))
}

// Quantity is a scaled integer with scale 3: 1000 units = 1 BTC.
type Quantity int64

// QuantityScale is the fixed decimal scale of Quantity.
const QuantityScale = 3

func (q Quantity) AppendString(buf []byte) []byte {
	return appendScaledInt(buf, int64(q), QuantityScale)
}

func (q Quantity) String() string {
	return string(q.AppendString(nil))
}

func appendScaledInt(buf []byte, value int64, scale int) []byte {
	if scale <= 0 {
		return strconv.AppendInt(buf, value, 10)
	}

	neg := value < 0
	u := uint64(value)
	if neg {
		u = uint64(^value) + 1
	}

	var tmp [32]byte
	digits := strconv.AppendUint(tmp[:0], u, 10)

	if neg {
		buf = append(buf, '-')
	}

	if len(digits) <= scale {
		buf = append(buf, '0', '.')
		for i := 0; i < scale-len(digits); i++ {
			buf = append(buf, '0')
		}
		buf = append(buf, digits...)
		return buf
	}

	idx := len(digits) - scale
	buf = append(buf, digits[:idx]...)
	buf = append(buf, '.')
	buf = append(buf, digits[idx:]...)
	return buf
}

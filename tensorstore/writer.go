package tensorstore

import (
	"bufio"
	"io"
	"strconv"
)

// defaultSigDigits keeps the restart vector numerically exact when it
// is parsed back as a float64.
const defaultSigDigits = 16

// FormatPolicy controls the decimal precision of serialized values. It
// is passed explicitly to the writer; there is no process-global
// formatting state.
type FormatPolicy struct {
	// MinSigDigits is the minimum number of significant decimal
	// digits. Values <= 0 fall back to 16.
	MinSigDigits int
}

// DefaultFormatPolicy emits at least 16 significant digits in
// scientific notation, enough to reuse the output as a restart input.
var DefaultFormatPolicy = FormatPolicy{MinSigDigits: defaultSigDigits}

func (p FormatPolicy) digits() int {
	if p.MinSigDigits <= 0 {
		return defaultSigDigits
	}
	return p.MinSigDigits
}

// Format renders one value in scientific notation under the policy.
func (p FormatPolicy) Format(v float64) string {
	return strconv.FormatFloat(v, 'e', p.digits()-1, 64)
}

// WriteVector writes v to w, one value per line, formatted under the
// policy.
func WriteVector(w io.Writer, v []float64, policy FormatPolicy) error {
	bw := bufio.NewWriter(w)
	for _, x := range v {
		if _, err := bw.WriteString(policy.Format(x)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

package decimal

import "github.com/cockroachdb/apd"

// Decimal is an arbitrary precision decimal used where float64 is not precise enough.
type Decimal struct {
	underlined *apd.Decimal
}

var apdContext = apd.Context{
	MaxExponent: apd.BaseContext.MaxExponent,
	MinExponent: apd.MinExponent,
	Precision:   34,
	Rounding:    apd.BaseContext.Rounding,
	Traps:       apd.BaseContext.Traps,
}

func New(m int64, e int32) *Decimal {
	return &Decimal{apd.New(m, e)}
}

func NewFromString(s string) (*Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &Decimal{d}, nil
}

func (d *Decimal) Div(d2 *Decimal) *Decimal {
	r := new(apd.Decimal)
	apdContext.Quo(r, d.underlined, d2.underlined)
	return &Decimal{r}
}

func (d *Decimal) Mul(d2 *Decimal) *Decimal {
	r := new(apd.Decimal)
	apdContext.Mul(r, d.underlined, d2.underlined)
	return &Decimal{r}
}

func (d *Decimal) Neg() *Decimal {
	r := new(apd.Decimal)
	r.Neg(d.underlined)
	return &Decimal{r}
}

// Exp returns e^d.
func (d *Decimal) Exp() *Decimal {
	r := new(apd.Decimal)
	apdContext.Exp(r, d.underlined)
	return &Decimal{r}
}

func (d *Decimal) Float64() float64 {
	f, _ := d.underlined.Float64()
	return f
}

func (d *Decimal) Cmp(d2 *Decimal) int {
	return d.underlined.Cmp(d2.underlined)
}

func (d *Decimal) String() string {
	return d.underlined.String()
}

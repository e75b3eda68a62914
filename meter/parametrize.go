package meter

import "github.com/cockroachdb/errors"

// |||||| CONFIG ||||||

type ParametrizeConfig[V ParametrizeVars] interface {
	Next() (V, error)
}

type ParametrizeVars interface{}

var errParametrizeExhausted = errors.New("[meter.parametrize] - config exhausted")

// IterVars feeds a fixed set of variable values to a Parametrize.
func IterVars[V ParametrizeVars](vars []V) ParametrizeConfig[V] {
	return &iterVars[V]{vars: vars}
}

type iterVars[V ParametrizeVars] struct {
	vars []V
	i    int
}

func (c *iterVars[V]) Next() (V, error) {
	if c.i >= len(c.vars) {
		var v V
		return v, errParametrizeExhausted
	}
	v := c.vars[c.i]
	c.i++
	return v, nil
}

// |||||| PARAMETRIZE ||||||

// Parametrize stamps a template out once per configured variable set. Used in
// tests to sweep a property across many parameter combinations.
type Parametrize[V ParametrizeVars] struct {
	config   ParametrizeConfig[V]
	template func(i int, vars V)
}

func NewParametrize[V ParametrizeVars](config ParametrizeConfig[V]) *Parametrize[V] {
	return &Parametrize[V]{config: config}
}

func (p *Parametrize[V]) Template(template func(i int, vars V)) {
	p.template = template
}

func (p *Parametrize[V]) Construct() {
	i := 0
	for {
		v, err := p.config.Next()
		if err != nil {
			break
		}
		p.template(i, v)
		i++
	}
}

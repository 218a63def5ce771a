package core

// Params accumulates named bindings for one query execution. Binding the
// same name twice overwrites the earlier value, which lets call sites build
// bindings conditionally. The binder never inspects query text: whether
// every referenced name is actually bound is checked by the storage adapter
// when the query runs.
type Params struct {
	values map[string]Value
}

func NewParams() *Params {
	return &Params{values: make(map[string]Value)}
}

func (p *Params) SetString(name, value string) *Params {
	p.values[name] = NewString(value)
	return p
}

func (p *Params) SetInt(name string, value int64) *Params {
	p.values[name] = NewInt(value)
	return p
}

func (p *Params) SetFloat(name string, value float64) *Params {
	p.values[name] = NewFloat(value)
	return p
}

func (p *Params) SetBool(name string, value bool) *Params {
	p.values[name] = NewBool(value)
	return p
}

// Get looks a binding up by name. Safe on a nil receiver, so adapters can
// treat "no params" and "empty params" alike.
func (p *Params) Get(name string) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	v, ok := p.values[name]
	return v, ok
}

// Len reports the number of distinct bound names.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.values)
}

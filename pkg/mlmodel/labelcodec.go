package mlmodel

import (
	"fmt"

	"github.com/predictia/predictia-go/pkg/dataset"
)

// LabelCodec is an ordered bijection between original target label
// values and dense integer codes. Classes holds the original values
// indexed by code, in first-occurrence order, so the persisted form is
// a plain inspectable JSON array; the reverse map is rebuilt on load.
type LabelCodec struct {
	Classes []interface{} `json:"classes"`

	index map[string]int
}

// NewLabelCodec builds a codec over the target column values in
// first-occurrence order.
func NewLabelCodec(values []interface{}) *LabelCodec {
	c := &LabelCodec{index: make(map[string]int)}
	for _, v := range values {
		key := dataset.Stringify(v)
		if _, ok := c.index[key]; !ok {
			c.index[key] = len(c.Classes)
			c.Classes = append(c.Classes, v)
		}
	}
	return c
}

// Encode returns the dense code for a label value seen at training time.
func (c *LabelCodec) Encode(value interface{}) (int, bool) {
	if c.index == nil {
		c.Rehydrate()
	}
	code, ok := c.index[dataset.Stringify(value)]
	return code, ok
}

// Decode maps a predicted code back to the original label value.
func (c *LabelCodec) Decode(code int) (interface{}, error) {
	if code < 0 || code >= len(c.Classes) {
		return nil, fmt.Errorf("label code %d out of range [0,%d)", code, len(c.Classes))
	}
	return c.Classes[code], nil
}

// Len returns the number of distinct classes.
func (c *LabelCodec) Len() int {
	return len(c.Classes)
}

// Rehydrate rebuilds the reverse lookup after JSON deserialization.
func (c *LabelCodec) Rehydrate() {
	c.index = make(map[string]int, len(c.Classes))
	for i, v := range c.Classes {
		c.index[dataset.Stringify(v)] = i
	}
}

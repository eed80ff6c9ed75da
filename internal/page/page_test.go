package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   Request
		want Request
	}{
		{"zero value gets defaults", Request{}, Request{Number: 0, Size: DefaultSize}},
		{"negative number floors at zero", Request{Number: -3, Size: 10}, Request{Number: 0, Size: 10}},
		{"oversized is capped", Request{Number: 1, Size: 500}, Request{Number: 1, Size: MaxSize}},
		{"valid request is untouched", Request{Number: 2, Size: 50}, Request{Number: 2, Size: 50}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalized())
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Request{Number: 0, Size: 20}.Offset())
	assert.Equal(t, 40, Request{Number: 2, Size: 20}.Offset())
	assert.Equal(t, 0, Request{Number: -1, Size: 20}.Offset())
	assert.Equal(t, 20, Request{Number: 1}.Offset())
}

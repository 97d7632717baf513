package view

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestMoney(t *testing.T) {
	tests := []struct {
		name  string
		input *float64
		want  string
	}{
		{name: "正常系: 桁区切り", input: ptr(20000), want: "$20,000"},
		{name: "正常系: 四捨五入", input: ptr(20921.93), want: "$20,922"},
		{name: "正常系: ゼロ", input: ptr(0), want: "$0"},
		{name: "異常系: nil", input: nil, want: "—"},
		{name: "異常系: NaN", input: ptr(math.NaN()), want: "—"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(tt.input))
		})
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "256,500", Number(256500, 0))
	assert.Equal(t, "7.5", Number(7.5, 1))
	assert.Equal(t, "—", Number(math.Inf(1), 0))
	assert.Equal(t, "—", NumberPtr(nil, 0))
	assert.Equal(t, "243,000", NumberPtr(ptr(243000), 0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "65.5%", Percent(65.5, 1))
	assert.Equal(t, "105.5%", Percent(105.5, 1))
	assert.Equal(t, "—", Percent(math.NaN(), 1))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "Jan 15, 2024, 10:30 AM", Date("2024-01-15T10:30:00Z"))
	assert.Equal(t, "Jan 15, 2024, 12:00 AM", Date("2024-01-15"))
	assert.Equal(t, "—", Date(""))
	assert.Equal(t, "soon", Date("soon"))
}

func TestText(t *testing.T) {
	assert.Equal(t, "—", Text(""))
	assert.Equal(t, "Rolex", Text("Rolex"))
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, "giveaway-7-rolex-datejust-41", Anchor("giveaway", "7", "", "Rolex Datejust 41"))
}

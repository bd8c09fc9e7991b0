package normalize

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudget(t *testing.T) {
	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{"cars under $15k", 15000, true},
		{"budget of $12,500 please", 12500, true},
		{"usd 9000 max", 9000, true},
		{"less than 20k dollars", 20000, true},
		{"around 7,500 USD", 7500, true},
		{"$12.5k tops", 12500, true},
		{"mileage 15000", 0, false},
		{"under 15000", 0, false},
		{"show me diesel cars", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := Budget(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYearRange(t *testing.T) {
	tests := []struct {
		text string
		want Years
	}{
		{"cars 2016-2020", Years{Min: 2016, Max: 2020}},
		{"cars 2020-2016", Years{Min: 2016, Max: 2020}},
		{"cars 2016–2020", Years{Min: 2016, Max: 2020}},
		{"from 2015 to 2019", Years{Min: 2015, Max: 2019}},
		{"between 2019 and 2014", Years{Min: 2014, Max: 2019}},
		{"2018+", Years{Min: 2018}},
		{"since 2017", Years{Min: 2017}},
		{"top 3 cars from 2018", Years{Min: 2018}},
		{"<=2020", Years{Max: 2020}},
		{"≤ 2019", Years{Max: 2019}},
		{"up to 2015", Years{Max: 2015}},
		{"desde 2016 hasta 2021", Years{Min: 2016, Max: 2021}},
		{"cheap cars", Years{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := YearRange(tt.text)
			assert.Equal(t, tt.want, got)
			if got.HasMin() && got.HasMax() {
				assert.LessOrEqual(t, got.Min, got.Max)
			}
		})
	}
}

func TestMileageMax(t *testing.T) {
	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{"under 60k miles", 96560, true},
		{"≤ 80,000 km", 80000, true},
		{"less than 50000 kilometers", 50000, true},
		{"100 mi max", 161, true},
		{"mileage 15000", 15000, true},
		{"odometer under 70k", 70000, true},
		{"low mileage sedan", LowMileageKm, true},
		{"under $15k", 0, false},
		{"top 3 cars from 2018", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := MileageMax(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMileageMax_MilesConversionIsRounded(t *testing.T) {
	for _, n := range []int{1, 7, 10, 123, 60000} {
		text := "under " + strconv.Itoa(n) + " miles"
		got, ok := MileageMax(text)
		assert.True(t, ok, text)
		assert.Equal(t, int(float64(n)*milesToKm+0.5), got, text)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{"show me top 3 automatic diesel cars", 3, true},
		{"give me 5 options", 5, true},
		{"muéstrame 4 vehiculos", 4, true},
		{"10 recommendations please", 10, true},
		{"cars up to 2020", 0, false},
		{"cheap cars", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := Count(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuto(t *testing.T) {
	tests := []struct {
		text string
		want AutoHints
	}{
		{"automatic diesel cars", AutoHints{FuelType: "Diesel", Transmission: "Automatic"}},
		{"a diésel hybrid", AutoHints{FuelType: "Diesel"}},
		{"hybrid or electric suv", AutoHints{FuelType: "Hybrid", BodyStyle: "SUV"}},
		{"petrol manual hatchback", AutoHints{FuelType: "Gasoline", Transmission: "Manual", BodyStyle: "Hatchback"}},
		{"like new, accident-free truck", AutoHints{Condition: "Like New", Accident: "No", BodyStyle: "Truck"}},
		{"used sedan", AutoHints{Condition: "Used", BodyStyle: "Sedan"}},
		{"2018 and newer", AutoHints{}},
		{"every seven years", AutoHints{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Auto(tt.text))
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	text := "show me top 3 automatic diesel cars under $15k from 2018"
	assert.Equal(t, Extract(text), Extract(text))

	h := Extract(text)
	assert.True(t, h.WantsCarFilters())
	assert.Equal(t, 15000, h.Budget)
	assert.Equal(t, 3, h.Count)
	assert.Equal(t, Years{Min: 2018}, h.Years)
	assert.False(t, h.HasMileage)
}

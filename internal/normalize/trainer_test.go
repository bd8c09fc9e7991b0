package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonMetrics_Imperial(t *testing.T) {
	p := PersonMetrics(`compute my BMI: male, 5'9", 172 lb, 28 yo`)
	assert.Equal(t, "male", p.Gender)
	assert.Equal(t, 28, p.Age)
	assert.InDelta(t, 175.3, p.HeightCM, 0.05)
	assert.InDelta(t, 78.0, p.WeightKG, 0.05)
}

func TestPersonMetrics_MetricPreferred(t *testing.T) {
	p := PersonMetrics("mujer, edad 31, altura 162 cm, peso 58.5 kg, 5 ft 9 in")
	assert.Equal(t, Person{Gender: "female", Age: 31, HeightCM: 162, WeightKG: 58.5}, p)
}

func TestPersonMetrics_Spanish(t *testing.T) {
	p := PersonMetrics("hombre de 40 años, 180 cm y 90 kg")
	assert.Equal(t, Person{Gender: "male", Age: 40, HeightCM: 180, WeightKG: 90}, p)
}

func TestImperial(t *testing.T) {
	h, w := Imperial("6 ft 1 in and 200 pounds")
	assert.InDelta(t, 185.4, h, 0.05)
	assert.InDelta(t, 90.7, w, 0.05)

	h, w = Imperial("nothing here")
	assert.Zero(t, h)
	assert.Zero(t, w)
}

func TestTrainerContext(t *testing.T) {
	tests := []struct {
		text string
		want Trainer
	}{
		{
			"build a routine for fat loss, 4 days per week, 45 minutes, beginner",
			Trainer{Goal: "fat loss", DaysPerWeek: 4, MinutesPerSession: 45, Experience: "beginner"},
		},
		{
			"quiero ganar músculo, 3 entrenamientos por semana, nivel avanzado",
			Trainer{Goal: "gain muscle mass", DaysPerWeek: 3, Experience: "advanced"},
		},
		{
			"running endurance plan, 5 days but 3 sessions per week",
			Trainer{Goal: "endurance", Sport: "running", DaysPerWeek: 3},
		},
		{
			"recommend 5 exercises for strength",
			Trainer{Goal: "strength", Limit: 5},
		},
		{
			"boxing drills limit 8",
			Trainer{Sport: "boxing", Limit: 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, TrainerContext(tt.text))
		})
	}
}

func TestPokemonConstraints(t *testing.T) {
	p := PokemonConstraints("a fire and agua pokemon with levitate, faster than 100")
	assert.Equal(t, []string{"fire", "water"}, p.IncludeTypes)
	assert.Equal(t, 101, p.MinSpeed)
	assert.Equal(t, []string{"Levitate"}, p.RequireAbilities)

	p = PokemonConstraints("dragón type, speed >= 95")
	assert.Equal(t, []string{"dragon"}, p.IncludeTypes)
	assert.Equal(t, 95, p.MinSpeed)

	p = PokemonConstraints("at least 80 speed, steel and fairy")
	assert.Equal(t, []string{"fairy", "steel"}, p.IncludeTypes)
	assert.Equal(t, 80, p.MinSpeed)

	assert.True(t, PokemonConstraints("build me a team").IsZero())
}

func TestEchoCommand(t *testing.T) {
	args, ok := EchoCommand("echo hola mundo")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"params": map[string]any{"text": "hola mundo"}}, args)

	args, ok = EchoCommand("echo")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"params": map[string]any{"text": "hello?"}}, args)

	_, ok = EchoCommand("please echo this")
	assert.False(t, ok)
}

func TestSumCommand(t *testing.T) {
	args, ok := SumCommand("sum 2 3")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"params": map[string]any{"a": 2, "b": 3}}, args)

	args, ok = SumCommand("add 1.5 and 4")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"params": map[string]any{"a": 1.5, "b": 4}}, args)

	_, ok = SumCommand("sum 1 2 3")
	assert.False(t, ok)
	_, ok = SumCommand("what is the sum of my car prices")
	assert.False(t, ok)
}

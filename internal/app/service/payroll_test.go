package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{2.5, 2.5},
		{0.375, 0.38},
		{2.344, 2.34},
		{0.125, 0.13},
		{-0.125, -0.13},
		{1000.0000000000002, 1000},
		{0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Round2(tc.in), "Round2(%v)", tc.in)
	}
}

func TestPayroll_Compute(t *testing.T) {
	p := NewPayroll(400)
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		elapsed    time.Duration
		hours, pay float64
	}{
		{"два с половиной часа", 2*time.Hour + 30*time.Minute, 2.5, 1000},
		{"ровно два часа", 2 * time.Hour, 2, 800},
		{"двадцать минут", 20 * time.Minute, 0.33, 132},
		{"одна минута", time.Minute, 0.02, 8},
		{"меньше полминуты", 17 * time.Second, 0, 0},
		{"часы назад", -time.Hour, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hours, pay := p.Compute(start, start.Add(tc.elapsed))
			assert.Equal(t, tc.hours, hours)
			assert.Equal(t, tc.pay, pay)
		})
	}
}

func TestNewPayroll_DefaultRate(t *testing.T) {
	assert.Equal(t, DefaultHourlyRate, NewPayroll(0).Rate)
	assert.Equal(t, 250.0, NewPayroll(250).Rate)
}

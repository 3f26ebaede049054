package hw

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/analog"
)

type fakeSampler struct {
	raw int32
	err error
}

func (s *fakeSampler) Read() (analog.Sample, error) {
	return analog.Sample{Raw: s.raw}, s.err
}

func TestLightSensor_ReadLight(t *testing.T) {
	tests := []struct {
		raw  int32
		err  error
		want uint16
	}{
		{0, nil, 0},
		{-12, nil, 0},
		{16384, nil, 511},
		{adcFullScale, nil, lightMax},
		{40000, nil, lightMax},
		{16384, errors.New("i2c"), 0},
	}
	for _, tt := range tests {
		got := NewLightSensor(&fakeSampler{raw: tt.raw, err: tt.err}).ReadLight()
		if got != tt.want {
			t.Errorf("ReadLight(raw=%d, err=%v) = %d, want %d", tt.raw, tt.err, got, tt.want)
		}
	}
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindValid(t *testing.T) {
	assert.True(t, KindMoney.Valid())
	assert.True(t, KindEnergy.Valid())
	assert.False(t, Kind("volume").Valid())
	assert.False(t, Kind("").Valid())
}

func TestTriggered(t *testing.T) {
	cases := []struct {
		name        string
		alarm       Alarm
		price       float64
		consumption float64
		want        bool
	}{
		{"inactive money never fires", Alarm{Kind: KindMoney, Threshold: 1.0, Active: false}, 100, 100, false},
		{"inactive energy never fires", Alarm{Kind: KindEnergy, Threshold: 1.0, Active: false}, 100, 100, false},
		{"money below threshold", Alarm{Kind: KindMoney, Threshold: 2.0, Active: true}, 1.99, 50, false},
		{"money equal to threshold fires", Alarm{Kind: KindMoney, Threshold: 2.0, Active: true}, 2.0, 0, true},
		{"money above threshold fires", Alarm{Kind: KindMoney, Threshold: 2.0, Active: true}, 2.01, 0, true},
		{"energy below threshold", Alarm{Kind: KindEnergy, Threshold: 10, Active: true}, 100, 9.9, false},
		{"energy equal to threshold fires", Alarm{Kind: KindEnergy, Threshold: 10, Active: true}, 0, 10, true},
		{"energy above threshold fires", Alarm{Kind: KindEnergy, Threshold: 10, Active: true}, 0, 10.5, true},
		{"unknown kind never fires", Alarm{Kind: Kind("volume"), Threshold: 0, Active: true}, 100, 100, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.alarm.Triggered(tc.price, tc.consumption))
		})
	}
}

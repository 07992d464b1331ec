package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

func hm(h, m int) time.Time {
	return time.Date(2030, 3, 4, h, m, 0, 0, time.UTC)
}

func iv(h1, m1, h2, m2 int) appointment.Interval {
	return appointment.Interval{Start: hm(h1, m1), End: hm(h2, m2)}
}

var open9to18 = ShopDay{Open: true, Window: iv(9, 0, 18, 0)}

func TestFreeIntervals(t *testing.T) {
	bd := BarberDay{
		Windows: []appointment.Interval{iv(8, 0, 13, 0), iv(14, 0, 19, 0)},
		Busy:    []appointment.Interval{iv(10, 0, 10, 30)},
	}

	got := FreeIntervals(bd, open9to18)
	assert.Equal(t, []appointment.Interval{iv(9, 0, 10, 0), iv(10, 30, 13, 0), iv(14, 0, 18, 0)}, got)

	assert.Nil(t, FreeIntervals(bd, ShopDay{}))
}

func TestFreeAt(t *testing.T) {
	bd := BarberDay{
		Windows: []appointment.Interval{iv(9, 0, 13, 0), iv(14, 0, 18, 0)},
		Busy:    []appointment.Interval{iv(10, 0, 10, 45), iv(16, 0, 16, 30)},
	}

	cases := []struct {
		name    string
		at      time.Time
		free    bool
		minutes int
	}{
		{"before next booking", hm(9, 15), true, 45},
		{"inside booking", hm(10, 30), false, 0},
		{"booking end is free", hm(10, 45), true, 135},
		{"lunch gap", hm(13, 30), false, 0},
		{"bounded by booking", hm(15, 0), true, 60},
		{"bounded by closing", hm(17, 0), true, 60},
		{"after closing", hm(18, 0), false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FreeAt(bd, open9to18, tc.at)
			assert.Equal(t, tc.free, got.Available)
			assert.Equal(t, tc.minutes, got.FreeMinutes)
		})
	}

	assert.False(t, FreeAt(bd, ShopDay{}, hm(9, 15)).Available)
}

func TestClassifyDay(t *testing.T) {
	free := BarberDay{BarberID: 1, Windows: []appointment.Interval{iv(9, 0, 18, 0)}}
	booked := BarberDay{BarberID: 2, Windows: []appointment.Interval{iv(9, 0, 18, 0)}, Busy: []appointment.Interval{iv(10, 0, 11, 0)}}
	full := BarberDay{BarberID: 3, Windows: []appointment.Interval{iv(9, 0, 18, 0)}, Busy: []appointment.Interval{iv(9, 0, 18, 0)}}
	off := BarberDay{BarberID: 4}

	cases := []struct {
		name    string
		shop    ShopDay
		barbers []BarberDay
		want    DayStatus
	}{
		{"closed", ShopDay{}, []BarberDay{free}, DayNoAvailability},
		{"no barbers", open9to18, nil, DayNoAvailability},
		{"nobody works", open9to18, []BarberDay{off}, DayNoAvailability},
		{"everyone full", open9to18, []BarberDay{full}, DayNoAvailability},
		{"all free", open9to18, []BarberDay{free, off}, DayFree},
		{"one booked", open9to18, []BarberDay{free, booked}, DayPartial},
		{"one full one free", open9to18, []BarberDay{full, free}, DayPartial},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyDay(tc.shop, tc.barbers))
		})
	}
}

func TestSlotGrid(t *testing.T) {
	bd := BarberDay{Windows: []appointment.Interval{iv(9, 0, 18, 0)}, Busy: []appointment.Interval{iv(10, 0, 10, 30)}}

	slots := SlotGrid(open9to18, []BarberDay{bd})
	require.Len(t, slots, 18)
	for _, s := range slots {
		assert.Equal(t, s.Time != "10:00", s.Available, s.Time)
	}

	assert.Nil(t, SlotGrid(ShopDay{}, []BarberDay{bd}))
}

func TestSlotGridAlignsToHalfHours(t *testing.T) {
	shop := ShopDay{Open: true, Window: iv(9, 15, 11, 10)}
	bd := BarberDay{Windows: []appointment.Interval{iv(9, 0, 18, 0)}}

	slots := SlotGrid(shop, []BarberDay{bd})

	var times []string
	for _, s := range slots {
		times = append(times, s.Time)
	}
	assert.Equal(t, []string{"09:30", "10:00", "10:30"}, times)
}

func TestSlotGridWindowBoundary(t *testing.T) {
	bd := BarberDay{Windows: []appointment.Interval{iv(9, 0, 10, 15)}}

	slots := SlotGrid(open9to18, []BarberDay{bd})
	require.True(t, slots[0].Available)
	require.True(t, slots[1].Available)
	assert.False(t, slots[2].Available, "10:00 block straddles the window end")
}

func TestSlotGridJoinsTouchingWindows(t *testing.T) {
	bd := BarberDay{Windows: []appointment.Interval{iv(12, 15, 13, 0), iv(9, 0, 12, 15)}}

	slots := SlotGrid(open9to18, []BarberDay{bd})
	require.Equal(t, "12:00", slots[6].Time)
	assert.True(t, slots[6].Available)

	assert.Equal(t, []appointment.Interval{iv(9, 0, 13, 0)}, FreeIntervals(bd, open9to18))
	assert.Equal(t, 60, FreeAt(bd, open9to18, hm(12, 0)).FreeMinutes)
}

func TestCheckBookable(t *testing.T) {
	bd := BarberDay{Windows: []appointment.Interval{iv(9, 0, 12, 0), iv(14, 0, 17, 0)}}
	touching := BarberDay{Windows: []appointment.Interval{iv(9, 0, 12, 15), iv(12, 15, 13, 0)}}

	cases := []struct {
		name      string
		shop      ShopDay
		bd        BarberDay
		candidate appointment.Interval
		code      string
	}{
		{"fits", open9to18, bd, iv(11, 0, 11, 30), ""},
		{"closed", ShopDay{}, bd, iv(11, 0, 11, 30), appointment.CodeShopClosed},
		{"before opening", open9to18, bd, iv(8, 30, 9, 30), appointment.CodeOutsideOperatingHours},
		{"day off", open9to18, BarberDay{}, iv(11, 0, 11, 30), appointment.CodeBarberUnavailable},
		{"across lunch", open9to18, bd, iv(11, 45, 14, 15), appointment.CodeOutsideWorkingHours},
		{"after window", open9to18, bd, iv(12, 0, 12, 30), appointment.CodeOutsideWorkingHours},
		{"across touching windows", open9to18, touching, iv(12, 0, 12, 30), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckBookable(tc.bd, tc.shop, tc.candidate)
			if tc.code == "" {
				assert.NoError(t, err)
				return
			}
			var oow appointment.OutOfWindowError
			require.ErrorAs(t, err, &oow)
			assert.Equal(t, tc.code, oow.Code)
		})
	}
}
